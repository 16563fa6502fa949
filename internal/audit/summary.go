package audit

import (
	"fmt"
	"io"

	"github.com/aliuyar1234/studioinvite/internal/invite"
)

// WriteSummary prints a human-readable batch summary, followed by the
// records that did not make it.
func WriteSummary(out io.Writer, s invite.Summary, events []Event) {
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  total: %d, submitted: %d, skipped: %d, failed: %d\n",
		s.Total, s.Submitted(), s.Skipped(), s.Failed())

	for _, e := range events {
		switch e.Action {
		case EventInviteSkipped:
			fmt.Fprintf(out, "  skipped %s: %s\n", e.Record, e.Error)
		case EventInviteFailed:
			fmt.Fprintf(out, "  failed  %s: %s\n", e.Record, e.Error)
		}
	}
}
