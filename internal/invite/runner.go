package invite

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/studio"
)

// Outcome is the terminal result of one record.
type Outcome struct {
	Index      int
	Label      string
	Resolution State
	State      State
	Endpoint   string
	StatusCode int
	Err        error
}

// Recorder receives every outcome as soon as it is known.
type Recorder interface {
	RecordOutcome(ctx context.Context, o Outcome)
}

// Summary counts terminal states over one batch.
type Summary struct {
	Total  int
	Counts map[State]int
}

func (s Summary) Submitted() int {
	return s.Counts[StateSubmittedProject] + s.Counts[StateSubmittedOrgFallback] + s.Counts[StateSubmittedOrg]
}

func (s Summary) Skipped() int {
	return s.Counts[StateSkipped]
}

func (s Summary) Failed() int {
	return s.Counts[StateSubmitFailed]
}

// Runner processes a batch strictly in order: each record is normalized and
// submitted, fallback included, before the next one starts. A record's
// failure never stops the batch.
type Runner struct {
	normalizer *Normalizer
	submitter  *Submitter
	recorder   Recorder
}

// NewRunner wires a batch runner. recorder may be nil.
func NewRunner(normalizer *Normalizer, submitter *Submitter, recorder Recorder) *Runner {
	return &Runner{normalizer: normalizer, submitter: submitter, recorder: recorder}
}

// Run processes records and returns the per-state counts. The only error is
// context cancellation, returned with the summary of what completed.
func (r *Runner) Run(ctx context.Context, sess studio.Session, records []Record) (Summary, error) {
	summary := Summary{Counts: make(map[State]int)}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		o := r.process(ctx, sess, i, rec)
		if o.Err != nil && ctx.Err() != nil {
			return summary, ctx.Err()
		}

		summary.Total++
		summary.Counts[o.State]++
		r.report(ctx, o)
	}

	log.Info().
		Int("total", summary.Total).
		Int("submitted", summary.Submitted()).
		Int("skipped", summary.Skipped()).
		Int("failed", summary.Failed()).
		Msg("Batch finished")

	return summary, nil
}

func (r *Runner) process(ctx context.Context, sess studio.Session, i int, rec Record) Outcome {
	n, err := r.normalizer.Normalize(ctx, sess, rec)
	if err != nil {
		state := StateSubmitFailed
		if errors.Is(err, ErrRecordSkipped) {
			state = StateSkipped
		}
		return Outcome{Index: i, Label: rec.Label(), Resolution: n.Resolution, State: state, Err: err}
	}

	res, err := r.submitter.Submit(ctx, sess, n)
	return Outcome{
		Index:      i,
		Label:      n.Label,
		Resolution: n.Resolution,
		State:      res.State,
		Endpoint:   res.Endpoint,
		StatusCode: res.StatusCode,
		Err:        err,
	}
}

func (r *Runner) report(ctx context.Context, o Outcome) {
	switch o.State {
	case StateSkipped:
		log.Info().Err(o.Err).Int("index", o.Index).Str("record", o.Label).Msg("Skipping record")
	case StateSubmitFailed:
		log.Error().Err(o.Err).Int("index", o.Index).Str("record", o.Label).Str("endpoint", o.Endpoint).Msg("Invite failed")
	default:
		log.Info().
			Int("index", o.Index).
			Str("record", o.Label).
			Str("state", o.State.String()).
			Str("endpoint", o.Endpoint).
			Int("status_code", o.StatusCode).
			Msg("Invited")
	}

	if r.recorder != nil {
		r.recorder.RecordOutcome(ctx, o)
	}
}
