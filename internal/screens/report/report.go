package report

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/examtimer"
	"github.com/abhisek/skillcheck/internal/proctor"
	"github.com/abhisek/skillcheck/internal/result"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// ReportScreen displays the outcome of a completed assessment.
type ReportScreen struct {
	machine *assessment.Machine
	summary result.Summary
	skill   string
	used    int // seconds spent
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates the result screen for the machine's completed session.
func New(m *assessment.Machine) *ReportScreen {
	sess := m.Session()
	return &ReportScreen{
		machine: m,
		summary: result.FromSession(sess),
		skill:   sess.Skill(),
		used:    m.ExamSeconds() - sess.TimeRemaining(),
	}
}

func (s *ReportScreen) Init() tea.Cmd {
	return nil
}

func (s *ReportScreen) Title() string {
	return "Result"
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Take another"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "r":
		if err := s.machine.Retake(); err != nil {
			return s, nil
		}
		return s, func() tea.Msg { return screen.ShowSelectMsg{} }
	case "q", "Q":
		return s, tea.Quit
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(sum.Badge.String()))
	b.WriteString("\n\n")

	titleColor := theme.Primary
	if sum.Badge == result.BadgeTerminated {
		titleColor = theme.Error
	}
	b.WriteString(center.Foreground(titleColor).Bold(true).Render(sum.Title))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(s.skill))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Text).Render(sum.Message))
	b.WriteString("\n\n")

	if sum.ShowScore {
		var pctColor color.Color = theme.Accent
		if sum.Passed {
			pctColor = theme.Success
		}
		b.WriteString(center.Foreground(pctColor).Bold(true).Render(fmt.Sprintf("%d%%", sum.Percentage)))
		b.WriteString("\n")

		barWidth := min(width-8, 50)
		bar := components.ProgressBar{
			Percent: float64(sum.Percentage) / 100,
			Urgent:  !sum.Passed,
			Width:   barWidth,
		}.View()
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar))
		b.WriteString("\n\n")
	}

	stats := fmt.Sprintf("Time used: %s        Strikes: %d/%d",
		examtimer.Format(s.used), sum.Strikes, proctor.MaxStrikes)
	b.WriteString(center.Foreground(theme.TextDim).Render(stats))
	b.WriteString("\n")
	if cause := result.CauseText(sum.Cause); cause != "" {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render(cause))
		b.WriteString("\n")
	}
	if !sum.Passed && sum.ShowScore {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d%% is needed to pass.", result.PassThreshold)))
	}

	return lipgloss.NewStyle().Height(height).Render(b.String())
}
