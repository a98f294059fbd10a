package rules

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/proctor"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// Summary is the one-line version of the rules.
var Summary = fmt.Sprintf("%d minutes · %d strikes end the exam · no switching away, right-click or copy",
	int(assessment.DefaultExamDuration.Minutes()), proctor.MaxStrikes)

var lines = []string{
	"Questions are generated for the skill you choose: multiple choice and coding.",
	"The timer starts when the questions appear. When it reaches zero your answers are submitted.",
	fmt.Sprintf("Leaving the terminal window, right-clicking, or copying counts as a strike. %d strikes end the exam.", proctor.MaxStrikes),
	"You can move between questions and change answers until you submit.",
	"Only multiple choice answers are scored automatically.",
}

// RulesScreen lists the exam rules.
type RulesScreen struct{}

var _ screen.Screen = (*RulesScreen)(nil)

func New() *RulesScreen { return &RulesScreen{} }

func (r *RulesScreen) Init() tea.Cmd { return nil }

func (r *RulesScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return r, nil }

func (r *RulesScreen) Title() string { return "Rules" }

func (r *RulesScreen) View(width, height int) string {
	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, l)
	}
	card := theme.Card.Width(min(width-4, 72)).Render(theme.Body.Render(strings.TrimRight(b.String(), "\n")))
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
