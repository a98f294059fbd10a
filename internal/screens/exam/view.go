package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/examtimer"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

func (e *ExamScreen) View(width, height int) string {
	switch e.machine.Phase() {
	case assessment.PhaseSelecting, assessment.PhaseGenerating:
		return renderCentered(width, height, theme.Hint.Render(
			fmt.Sprintf("Generating your %s assessment...", e.machine.Session().Skill())))
	case assessment.PhaseCompleted:
		return renderCentered(width, height, theme.Hint.Render("Assessment complete."))
	}
	return e.renderExam(width, height)
}

func renderCentered(width, height int, s string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(s)
}

func (e *ExamScreen) renderExam(width, height int) string {
	sess := e.machine.Session()
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder

	if w := sess.Warning(); w != "" {
		b.WriteString(theme.WarningBanner.Render(w))
		b.WriteString("\n")
	}
	if msg := sess.LastError(); msg != "" {
		b.WriteString(theme.ErrorText.Render("  " + msg + ". Press Ctrl+S to try again."))
		b.WriteString("\n")
	}

	b.WriteString(e.renderQuestionStrip())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	if q, ok := e.currentQuestion(); ok {
		b.WriteString(e.renderQuestion(q, inner))
	}
	b.WriteString("\n")

	switch {
	case e.machine.Phase() == assessment.PhaseSubmitting:
		b.WriteString(theme.Hint.Render("  Submitting answers..."))
	case e.confirming:
		b.WriteString(e.renderConfirm())
	}

	body := b.String()
	bar := components.ProgressBar{
		Label:   "Time",
		Right:   examtimer.Format(sess.TimeRemaining()),
		Percent: e.machine.TimerFraction(),
		Urgent:  e.machine.TimerUrgent(),
		Width:   inner,
	}.View()

	gap := height - lipgloss.Height(body) - lipgloss.Height(bar) - 1
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(body + strings.Repeat("\n", gap) + bar)
}

// renderQuestionStrip renders one cell per question, marking answered
// ones and the current position.
func (e *ExamScreen) renderQuestionStrip() string {
	sess := e.machine.Session()
	qs := sess.Questions()
	cells := make([]string, 0, len(qs))
	for i, q := range qs {
		label := fmt.Sprintf(" %d ", i+1)
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if sess.Answered(q.ID) {
			label = fmt.Sprintf(" %d✓", i+1)
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		if i == e.current {
			style = style.Reverse(true).Bold(true)
		}
		cells = append(cells, style.Render(label))
	}
	count := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("   %d/%d answered", sess.AnsweredCount(), len(qs)))
	return strings.Join(cells, " ") + count
}

func (e *ExamScreen) renderQuestion(q assessment.Question, width int) string {
	var b strings.Builder

	kind := "Multiple choice"
	if q.Kind == assessment.KindCoding {
		kind = "Coding"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d · %s", e.current+1, len(e.machine.Session().Questions()), kind)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Width(width).Render(q.Prompt))
	b.WriteString("\n\n")

	switch q.Kind {
	case assessment.KindMultipleChoice:
		b.WriteString(e.pickers[q.ID].View())
	case assessment.KindCoding:
		b.WriteString(e.editors[q.ID].View())
	}
	return b.String()
}

func (e *ExamScreen) renderConfirm() string {
	sess := e.machine.Session()
	total := len(sess.Questions())
	msg := fmt.Sprintf("Submit now? %d of %d questions answered.", sess.AnsweredCount(), total)
	if sess.AnsweredCount() < total {
		msg += " Unanswered questions score zero."
	}
	return theme.Card.BorderForeground(theme.Accent).Render(
		theme.Body.Bold(true).Render(msg) + "\n\n" + theme.Hint.Render("Y to submit, N to keep going"))
}
