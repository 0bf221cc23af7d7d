package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// punchclockHuhTheme returns a huh theme matching the formatter palette.
func punchclockHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateSlotLabel rejects text the subcategory file cannot hold.
func validateSlotLabel(s string) error {
	switch err := domain.ValidateNote(s); {
	case errors.Is(err, domain.ErrInvalidNote):
		return fmt.Errorf("labels cannot contain commas or line breaks")
	case err != nil:
		return err
	}
	return nil
}

// slotLabelForm asks for the label of one subcategory slot, prefilled with
// its current text.
func slotLabelForm(c domain.Category, digit int, value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s, slot %d", c.Name, digit)).
				Description("Lowercased when saved. Leave blank to clear the slot.").
				Value(value).
				Validate(validateSlotLabel),
		),
	).WithTheme(punchclockHuhTheme()).WithShowHelp(false)
}
