package exam

import (
	"context"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/examtimer"
	"github.com/abhisek/skillcheck/internal/proctor"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// ExamScreen runs generation, the proctored exam, and submission for the
// machine's current session.
type ExamScreen struct {
	id      uint64
	ctx     context.Context
	machine *assessment.Machine
	client  assessment.Client
	signals proctor.Source
	log     zerolog.Logger

	current    int
	pickers    map[string]components.MultiChoice
	editors    map[string]components.CodeEditor
	confirming bool

	width  int
	height int
}

// screenIDs numbers exam screens so a tick loop left over from an
// earlier screen is never picked up by a new one.
var screenIDs atomic.Uint64

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)
var _ screen.KeyCapturer = (*ExamScreen)(nil)

// New creates an exam screen. The machine must hold a session with a
// selected skill.
func New(ctx context.Context, m *assessment.Machine, c assessment.Client, log zerolog.Logger) *ExamScreen {
	return &ExamScreen{
		id:      screenIDs.Add(1),
		ctx:     ctx,
		machine: m,
		client:  c,
		signals: terminalSignals{},
		log:     log.With().Str("component", "exam").Logger(),
		pickers: make(map[string]components.MultiChoice),
		editors: make(map[string]components.CodeEditor),
	}
}

func (e *ExamScreen) Init() tea.Cmd {
	skill, err := e.machine.BeginGeneration()
	if err != nil {
		e.log.Warn().Err(err).Msg("cannot start exam")
		return showSelect
	}
	return e.generateCmd(skill)
}

func (e *ExamScreen) Title() string {
	return "Assessment: " + e.machine.Session().Skill()
}

// CapturesKey keeps quit and back keys away from the app while an exam
// is running. ctrl+c counts as a copy attempt instead.
func (e *ExamScreen) CapturesKey(key string) bool {
	switch e.machine.Phase() {
	case assessment.PhaseActive, assessment.PhaseSubmitting:
		return key == "ctrl+c" || key == "esc"
	}
	return false
}

func (e *ExamScreen) Status() layout.Status {
	switch e.machine.Phase() {
	case assessment.PhaseActive, assessment.PhaseSubmitting:
	default:
		return layout.Status{}
	}
	s := e.machine.Session()
	return layout.Status{
		Clock:   examtimer.Format(s.TimeRemaining()),
		Urgent:  e.machine.TimerUrgent(),
		Strikes: s.StrikeCount(),
		Max:     proctor.MaxStrikes,
	}
}

func (e *ExamScreen) KeyHints() []layout.KeyHint {
	switch e.machine.Phase() {
	case assessment.PhaseGenerating:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case assessment.PhaseSubmitting:
		return []layout.KeyHint{{Key: "", Description: "Submitting..."}}
	}
	if e.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if e.editing() {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Stop editing"},
			{Key: "Ctrl+S", Description: "Submit"},
		}
	}
	hints := []layout.KeyHint{{Key: "←→", Description: "Question"}}
	if q, ok := e.currentQuestion(); ok && q.Kind == assessment.KindCoding {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Edit code"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "↑↓/A-D", Description: "Choose"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Submit"})
}

func (e *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if e.machine.Phase() == assessment.PhaseActive {
		if sigs := proctor.Detect(e.signals, msg); len(sigs) > 0 {
			return e.handleViolations(sigs)
		}
	}

	switch msg := msg.(type) {
	case generatedMsg:
		return e.handleGenerated(msg)

	case submittedMsg:
		return e.handleSubmitted(msg)

	case timerTickMsg:
		if msg.Screen != e.id {
			return e, nil
		}
		return e.handleTimerTick()

	case clearWarningMsg:
		e.machine.ClearWarning(msg.Text)
		return e, nil

	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
		e.resizeEditors()
		return e, nil

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	if e.editing() {
		return e.updateEditor(msg)
	}
	return e, nil
}

func showSelect() tea.Msg { return screen.ShowSelectMsg{} }
func showResult() tea.Msg { return screen.ShowResultMsg{} }

func (e *ExamScreen) tickCmd() tea.Cmd {
	id := e.id
	return tea.Tick(examtimer.TickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg{Screen: id, At: t}
	})
}

func clearWarningCmd(text string) tea.Cmd {
	return tea.Tick(proctor.WarningDuration, func(time.Time) tea.Msg {
		return clearWarningMsg{Text: text}
	})
}

func (e *ExamScreen) generateCmd(skill string) tea.Cmd {
	ctx, client := e.ctx, e.client
	return func() tea.Msg {
		gen, err := client.Generate(ctx, skill)
		return generatedMsg{Gen: gen, Err: err}
	}
}

func (e *ExamScreen) submitCmd(sub *assessment.Submission) tea.Cmd {
	if sub == nil {
		return nil
	}
	e.confirming = false
	for id := range e.editors {
		ed := e.editors[id]
		ed.Blur()
		e.editors[id] = ed
	}
	ctx, client := e.ctx, e.client
	return func() tea.Msg {
		res, err := client.Submit(ctx, sub)
		return submittedMsg{Result: res, Err: err}
	}
}

func (e *ExamScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	if err := e.machine.CompleteGeneration(msg.Gen, msg.Err); err != nil {
		e.log.Warn().Err(err).Msg("generation failed")
		return e, showSelect
	}

	for _, q := range e.machine.Session().Questions() {
		switch q.Kind {
		case assessment.KindMultipleChoice:
			e.pickers[q.ID] = components.NewMultiChoice(q.Options, -1)
		case assessment.KindCoding:
			e.editors[q.ID] = components.NewCodeEditor(q.Language, q.StarterCode)
		}
	}
	e.current = 0
	e.resizeEditors()
	return e, e.tickCmd()
}

func (e *ExamScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if err := e.machine.CompleteSubmission(msg.Result, msg.Err); err != nil {
		e.log.Warn().Err(err).Msg("submission failed")
		return e, nil
	}
	return e, showResult
}

func (e *ExamScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	switch e.machine.Phase() {
	case assessment.PhaseActive:
		if sub := e.machine.HandleTick(); sub != nil {
			return e, tea.Batch(e.tickCmd(), e.submitCmd(sub))
		}
		return e, e.tickCmd()
	case assessment.PhaseSubmitting:
		return e, e.tickCmd()
	}
	return e, nil
}

func (e *ExamScreen) handleViolations(sigs []proctor.Signal) (screen.Screen, tea.Cmd) {
	out, sub := e.machine.RecordViolations(sigs...)
	var cmds []tea.Cmd
	if out.Warning != "" {
		cmds = append(cmds, clearWarningCmd(out.Warning))
	}
	if sub != nil {
		cmds = append(cmds, e.submitCmd(sub))
	}
	return e, tea.Batch(cmds...)
}

func (e *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if e.machine.Phase() != assessment.PhaseActive {
		return e, nil
	}
	key := msg.String()

	if e.confirming {
		switch key {
		case "y", "Y", "enter":
			return e, e.requestSubmit()
		case "n", "N", "esc":
			e.confirming = false
		}
		return e, nil
	}

	if key == "ctrl+s" {
		e.confirming = true
		return e, nil
	}

	if e.editing() {
		if key == "esc" {
			e.setEditorFocus(false)
			return e, nil
		}
		return e.updateEditor(msg)
	}

	switch key {
	case "left", "h", "shift+tab", "pgup":
		e.move(-1)
		return e, nil
	case "right", "l", "tab", "pgdown":
		e.move(1)
		return e, nil
	}

	q, ok := e.currentQuestion()
	if !ok {
		return e, nil
	}
	if q.Kind == assessment.KindCoding {
		if key == "enter" || key == "e" {
			e.setEditorFocus(true)
		}
		return e, nil
	}

	picker, changed := e.pickers[q.ID].Update(msg)
	e.pickers[q.ID] = picker
	if changed {
		if err := e.machine.RecordMultipleChoiceAnswer(q.ID, picker.Chosen); err != nil {
			e.log.Error().Err(err).Str("question", q.ID).Msg("record answer")
		}
	}
	return e, nil
}

func (e *ExamScreen) requestSubmit() tea.Cmd {
	e.confirming = false
	sub, err := e.machine.RequestSubmit()
	if err != nil {
		e.log.Warn().Err(err).Msg("submit request")
		return nil
	}
	return e.submitCmd(sub)
}

func (e *ExamScreen) updateEditor(msg tea.Msg) (screen.Screen, tea.Cmd) {
	q, ok := e.currentQuestion()
	if !ok || q.Kind != assessment.KindCoding {
		return e, nil
	}
	ed, cmd := e.editors[q.ID].Update(msg)
	e.editors[q.ID] = ed
	if err := e.machine.RecordCodeAnswer(q.ID, ed.Value()); err != nil {
		e.log.Error().Err(err).Str("question", q.ID).Msg("record answer")
	}
	return e, cmd
}

func (e *ExamScreen) currentQuestion() (assessment.Question, bool) {
	qs := e.machine.Session().Questions()
	if e.current < 0 || e.current >= len(qs) {
		return assessment.Question{}, false
	}
	return qs[e.current], true
}

func (e *ExamScreen) editing() bool {
	q, ok := e.currentQuestion()
	if !ok || q.Kind != assessment.KindCoding {
		return false
	}
	return e.editors[q.ID].Focused()
}

func (e *ExamScreen) setEditorFocus(on bool) {
	q, ok := e.currentQuestion()
	if !ok {
		return
	}
	ed, ok := e.editors[q.ID]
	if !ok {
		return
	}
	if on {
		ed.Focus()
	} else {
		ed.Blur()
	}
	e.editors[q.ID] = ed
}

func (e *ExamScreen) move(delta int) {
	n := len(e.machine.Session().Questions())
	if n == 0 {
		return
	}
	next := e.current + delta
	if next < 0 || next >= n {
		return
	}
	e.setEditorFocus(false)
	e.current = next
}

func (e *ExamScreen) resizeEditors() {
	if e.width == 0 {
		return
	}
	h := e.height - 20
	if layout.IsCompactHeight(e.height) {
		h = e.height - 16
	}
	for id, ed := range e.editors {
		ed.SetSize(e.width-10, h)
		e.editors[id] = ed
	}
}
