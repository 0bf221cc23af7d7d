package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/charmbracelet/lipgloss"
)

const reportBarWidth = 20

// FormatReport renders per-category hours with share bars, a per-day
// breakdown, and any lines that could not be parsed.
func FormatReport(rep *app.Report) string {
	var b strings.Builder
	b.WriteString(Header(filepath.Base(rep.File)))
	b.WriteString("\n")

	rows := make([][]string, 0, len(rep.Categories))
	for _, c := range rep.Categories {
		style := StyleDim
		if c.Color != "" {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
		}
		share := 0.0
		if rep.TotalMinutes > 0 {
			share = float64(c.Minutes) / float64(rep.TotalMinutes)
		}
		rows = append(rows, []string{
			KeyBadge(c.Key),
			style.Render(c.Name),
			FormatHours(c.Hours),
			RenderShareBar(share, reportBarWidth, style),
		})
	}
	b.WriteString(RenderTable([]string{"KEY", "CATEGORY", "HOURS", "SHARE"}, rows))
	b.WriteString(fmt.Sprintf("\n%s %s (%s)\n", Bold("Total:"), FormatHours(rep.TotalHours), FormatMinutes(rep.TotalMinutes)))

	if len(rep.Days) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("By day"))
		b.WriteString("\n")
		b.WriteString(RenderTree(dayTree(rep)))
	}

	if len(rep.Skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(Warn(fmt.Sprintf("%d malformed line(s) skipped", len(rep.Skipped))))
		b.WriteString("\n")
		for _, s := range rep.Skipped {
			b.WriteString(Dim("  "+s) + "\n")
		}
	}
	return b.String()
}

func dayTree(rep *app.Report) []TreeItem {
	names := make(map[string]string, len(rep.Categories))
	order := make([]string, 0, len(rep.Categories))
	for _, c := range rep.Categories {
		names[c.Key] = c.Name
		order = append(order, c.Key)
	}

	var items []TreeItem
	for _, d := range rep.Days {
		items = append(items, TreeItem{Title: d.Date, Detail: FormatMinutes(d.Minutes)})
		var keys []string
		for _, k := range order {
			if d.ByCategory[k] > 0 {
				keys = append(keys, k)
			}
		}
		for i, k := range keys {
			items = append(items, TreeItem{
				Title:  names[k],
				Level:  1,
				IsLast: i == len(keys)-1,
				Detail: FormatMinutes(d.ByCategory[k]),
			})
		}
	}
	return items
}
