package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/exam"
	"github.com/abhisek/skillcheck/internal/screens/report"
	"github.com/abhisek/skillcheck/internal/screens/selectskill"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// Options holds the dependencies used by the TUI.
type Options struct {
	Client assessment.Client
	Skills []string
	// Skill, when set, skips selection and starts this assessment.
	Skill       string
	ExamOptions assessment.Options
	Logger      zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx     context.Context
	router  *router.Router
	machine *assessment.Machine
	client  assessment.Client
	skills  []string
	log     zerolog.Logger
	width   int
	height  int
}

// newAppModel creates a new AppModel on the skill selection screen, or on
// the exam screen when opts.Skill is preselected.
func newAppModel(ctx context.Context, opts Options) AppModel {
	skills := opts.Skills
	if len(skills) == 0 {
		skills = assessment.DefaultSkills
	}
	examOpts := opts.ExamOptions
	examOpts.Logger = opts.Logger

	m := AppModel{
		ctx:     ctx,
		machine: assessment.NewMachine(examOpts),
		client:  opts.Client,
		skills:  skills,
		log:     opts.Logger,
	}

	var initial screen.Screen = selectskill.New(m.machine, skills)
	if opts.Skill != "" {
		if err := m.machine.SelectSkill(opts.Skill); err == nil && m.machine.Session().Skill() != "" {
			initial = exam.New(ctx, m.machine, m.client, m.log)
		}
	}
	m.router = router.New(initial)
	return m
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

// captured reports whether the active screen wants key for itself.
func (m AppModel) captured(key string) bool {
	c, ok := m.router.Active().(screen.KeyCapturer)
	return ok && c.CapturesKey(key)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+q":
			return m, tea.Quit
		case "ctrl+c":
			if !m.captured(key) {
				return m, tea.Quit
			}
		case "esc":
			if m.router.Depth() > 1 && !m.captured(key) {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case screen.ShowSelectMsg:
		return m, m.show(selectskill.New(m.machine, m.skills))
	case screen.StartExamMsg:
		return m, m.show(exam.New(m.ctx, m.machine, m.client, m.log))
	case screen.ShowResultMsg:
		return m, m.show(report.New(m.machine))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// show replaces the whole stack with s and hands it the current size.
func (m AppModel) show(s screen.Screen) tea.Cmd {
	cmd := m.router.Reset(s)
	if m.width > 0 {
		m.router.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.ReportFocus = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
