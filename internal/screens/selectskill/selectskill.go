package selectskill

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/rules"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

const maxSkillLen = 40

// SelectScreen lets the candidate choose the skill to be assessed.
type SelectScreen struct {
	machine *assessment.Machine
	menu    components.Menu
	input   components.TextInput
	custom  bool // typing a skill not in the list
	errMsg  string
}

var _ screen.Screen = (*SelectScreen)(nil)
var _ screen.KeyHintProvider = (*SelectScreen)(nil)

// New creates the selection screen for skills.
func New(m *assessment.Machine, skills []string) *SelectScreen {
	s := &SelectScreen{machine: m}

	items := make([]components.MenuItem, 0, len(skills)+1)
	for _, skill := range skills {
		items = append(items, components.MenuItem{
			Label:  skill,
			Action: func() tea.Cmd { return s.choose(skill) },
		})
	}
	items = append(items, components.MenuItem{
		Label: "Other skill...",
		Hint:  "type your own",
		Action: func() tea.Cmd {
			s.custom = true
			s.input = components.NewTextInput("e.g. Kubernetes", maxSkillLen)
			return nil
		},
	})
	s.menu = components.NewMenu(items)
	return s
}

func (s *SelectScreen) Init() tea.Cmd {
	return nil
}

func (s *SelectScreen) Title() string {
	return "Choose a Skill"
}

func (s *SelectScreen) KeyHints() []layout.KeyHint {
	if s.custom {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back to list"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start assessment"},
		{Key: "?", Description: "Rules"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// choose records the skill and asks the app to start the exam.
func (s *SelectScreen) choose(skill string) tea.Cmd {
	if err := s.machine.SelectSkill(skill); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if s.machine.Session().Skill() == "" {
		s.errMsg = "Please select a skill first"
		return nil
	}
	s.errMsg = ""
	return func() tea.Msg { return screen.StartExamMsg{} }
}

func (s *SelectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.custom {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "esc":
				s.custom = false
				return s, nil
			case "enter":
				return s, s.choose(s.input.Value())
			}
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "?" {
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: rules.New()} }
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SelectScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Skill Assessment"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(rules.Summary))
	b.WriteString("\n\n")

	errText := s.errMsg
	if errText == "" {
		errText = s.machine.Session().LastError()
	}
	if errText != "" {
		b.WriteString(theme.ErrorText.Width(width).Align(lipgloss.Center).Render(errText))
		b.WriteString("\n\n")
	}

	var body string
	if s.custom {
		body = theme.Body.Render("Skill name:") + "\n\n" + s.input.View()
	} else {
		body = s.menu.View()
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(theme.Card.Width(min(width-4, 50)).Render(body)))

	return lipgloss.NewStyle().
		Height(height).
		Render(b.String())
}
