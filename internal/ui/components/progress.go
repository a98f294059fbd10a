package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// ProgressBar displays a horizontal bar with an optional label on each
// side, used for the exam countdown.
type ProgressBar struct {
	Label   string
	Right   string
	Percent float64
	Urgent  bool
	Width   int
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var left, right string
	if p.Label != "" {
		left = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Right != "" {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if p.Urgent {
			style = theme.Urgent
		}
		right = "  " + style.Render(p.Right)
	}

	barWidth := p.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	fill := theme.ProgressFilled
	if p.Urgent {
		fill = theme.ProgressUrgent
	}

	return left +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		right
}
