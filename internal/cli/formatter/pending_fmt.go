package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/weeklog"
)

// FormatPending lists queued entries as the record each will become.
func FormatPending(entries []*domain.PendingEntry, now time.Time) string {
	if len(entries) == 0 {
		return StyleGreen.Render("No queued entries.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, p := range entries {
		rows = append(rows, []string{
			TruncID(p.ID),
			weeklog.FormatRecord(p.Entry),
			fmt.Sprintf("%d", p.Attempts),
			HumanTimestamp(p.QueuedAt, now),
			StyleRed.Render(p.LastError),
		})
	}
	return RenderTable([]string{"ID", "RECORD", "RETRIES", "QUEUED", "LAST ERROR"}, rows)
}
