package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// FormatLegend renders the category keys as a single line of colored
// "[k] Name" pairs.
func FormatLegend(categories []domain.Category) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, KeyBadge(c.Key)+" "+CategoryStyle(c).Render(c.Name))
	}
	return strings.Join(parts, "  ")
}

// FormatSlots renders the ten subcategory slots in digit order 1..9,0,
// marking the selected one.
func FormatSlots(slots []app.SlotView) string {
	var b strings.Builder
	for _, s := range slots {
		label := s.Label
		if label == "" {
			label = Dim("-")
		}
		line := fmt.Sprintf(" %d  %s", s.Digit, label)
		if s.Selected {
			line = StyleYellowBold.Render(fmt.Sprintf("▶%d  ", s.Digit)) + StyleYellowBold.Render(s.Label)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatTrackerStatus renders the active session block: category, start,
// elapsed time and note.
func FormatTrackerStatus(v app.TrackerView) string {
	if !v.Active {
		return Dim("Idle. Press a category key to start.")
	}
	var b strings.Builder
	b.WriteString(CategoryStyle(v.Category).Bold(true).Render(v.Category.Name))
	b.WriteString(Dim(fmt.Sprintf("  since %s  ", ClockTime(v.StartedAt))))
	b.WriteString(StyleFg.Render(FormatElapsed(v.Elapsed)))
	b.WriteString("\n")
	switch {
	case v.AwaitingNote:
		b.WriteString(StyleYellow.Render(fmt.Sprintf("slot %d is empty, type a note", domain.DigitForSlot(v.SubcatIndex))))
	case v.Note != "":
		b.WriteString(Dim("note: ") + StyleFg.Render(v.Note))
	default:
		b.WriteString(Dim("no note"))
	}
	return b.String()
}

// FormatCategories renders the legend as a table for the categories command.
func FormatCategories(categories []domain.Category) string {
	if len(categories) == 0 {
		return Dim("No categories.") + "\n"
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			KeyBadge(c.Key),
			CategorySwatch(c),
			Dim(fmt.Sprintf("%d,%d,%d", c.Color.R, c.Color.G, c.Color.B)),
		})
	}
	return RenderTable([]string{"KEY", "NAME", "RGB"}, rows)
}

// FormatSubcategories renders one category's slots with their digits.
func FormatSubcategories(c domain.Category, slots [domain.SlotCount]string) string {
	rows := make([][]string, 0, domain.SlotCount)
	for i, label := range slots {
		if label == "" {
			label = Dim("-")
		}
		rows = append(rows, []string{fmt.Sprintf("%d", domain.DigitForSlot(i)), label})
	}
	return CategorySwatch(c) + "\n" + RenderTable([]string{"DIGIT", "LABEL"}, rows)
}
