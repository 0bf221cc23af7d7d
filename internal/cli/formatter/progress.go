package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShareBar renders a share of 0..1 as a block bar in the given style,
// e.g. a category's fraction of the week.
func RenderShareBar(share float64, width int, style lipgloss.Style) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if width < 2 {
		width = 2
	}
	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return style.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
