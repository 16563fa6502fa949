package apperrors

import (
	"context"
	"errors"
)

// Error taxonomy shared by every command. Packages wrap these with %w so
// callers can classify failures with errors.Is.
var (
	// ErrAuthFailure is terminal: the whole run aborts.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrCandidateExhausted means every candidate of a lookup was tried
	// without producing data. Terminal only for the lookup that raised it.
	ErrCandidateExhausted = errors.New("no candidate yielded data")

	// ErrRecordSkipped marks a record that could not be addressed. It is
	// reported, never treated as a failure of the batch.
	ErrRecordSkipped = errors.New("record skipped")

	// ErrSubmitFailed marks a record whose submission failed on every
	// endpoint. Processing continues with the next record.
	ErrSubmitFailed = errors.New("submit failed")

	// ErrInvalidConfig covers bad flags, env values and input files.
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitAborted = 130
)

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitAborted
	case errors.Is(err, ErrInvalidConfig):
		return ExitUsage
	case errors.Is(err, ErrRecordSkipped):
		return ExitOK
	default:
		return ExitFailure
	}
}
