package audit

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aliuyar1234/studioinvite/internal/invite"
)

const (
	EventInviteSubmittedProject     = "invite.submitted_project"
	EventInviteSubmittedOrgFallback = "invite.submitted_org_fallback"
	EventInviteSubmittedOrg         = "invite.submitted_org"
	EventInviteSkipped              = "invite.skipped"
	EventInviteFailed               = "invite.submit_failed"
)

// Event is one audit entry, written as a JSON line.
type Event struct {
	ID         uuid.UUID `json:"id"`
	RunID      uuid.UUID `json:"run_id"`
	Action     string    `json:"action"`
	Index      int       `json:"index"`
	Record     string    `json:"record"`
	Resolution string    `json:"resolution,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Writer keeps the audit trail of a run. Events are always retained in
// memory; when an output is set they are also appended as JSON lines.
type Writer struct {
	runID uuid.UUID
	out   io.Writer
	now   func() time.Time

	mu     sync.Mutex
	events []Event
}

// NewWriter creates a writer for runID. out may be nil.
func NewWriter(runID uuid.UUID, out io.Writer) *Writer {
	return &Writer{
		runID: runID,
		out:   out,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RecordOutcome implements invite.Recorder. Write failures are logged and
// never propagate into the batch.
func (w *Writer) RecordOutcome(ctx context.Context, o invite.Outcome) {
	evt := Event{
		ID:         uuid.New(),
		RunID:      w.runID,
		Action:     actionFor(o.State),
		Index:      o.Index,
		Record:     o.Label,
		Endpoint:   o.Endpoint,
		StatusCode: o.StatusCode,
		CreatedAt:  w.now(),
	}
	if o.Resolution != invite.StateUnresolved {
		evt.Resolution = o.Resolution.String()
	}
	if o.Err != nil {
		evt.Error = o.Err.Error()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.events = append(w.events, evt)
	if w.out == nil {
		return
	}

	line, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("action", evt.Action).Msg("Failed to marshal audit event")
		return
	}
	line = append(line, '\n')
	if _, err := w.out.Write(line); err != nil {
		log.Error().Err(err).Str("action", evt.Action).Msg("Failed to write audit event")
		return
	}

	log.Debug().
		Str("action", evt.Action).
		Str("record", evt.Record).
		Msg("Audit event logged")
}

// Events returns a copy of the recorded events in order.
func (w *Writer) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Event, len(w.events))
	copy(out, w.events)
	return out
}

func actionFor(s invite.State) string {
	switch s {
	case invite.StateSubmittedProject:
		return EventInviteSubmittedProject
	case invite.StateSubmittedOrgFallback:
		return EventInviteSubmittedOrgFallback
	case invite.StateSubmittedOrg:
		return EventInviteSubmittedOrg
	case invite.StateSkipped:
		return EventInviteSkipped
	default:
		return EventInviteFailed
	}
}
