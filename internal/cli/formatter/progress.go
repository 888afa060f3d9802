package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShareBar renders a bar like ████░░░░ 45% for a share of the day.
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
	bar := style.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, share*100)
}
