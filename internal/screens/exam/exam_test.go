package exam

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/screen"
)

type mockClient struct {
	gen    *assessment.Generated
	genErr error
	res    *assessment.Result
	subErr error

	skills []string
	subs   []*assessment.Submission
}

func (m *mockClient) Generate(_ context.Context, skill string) (*assessment.Generated, error) {
	m.skills = append(m.skills, skill)
	return m.gen, m.genErr
}

func (m *mockClient) Submit(_ context.Context, sub *assessment.Submission) (*assessment.Result, error) {
	m.subs = append(m.subs, sub)
	return m.res, m.subErr
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testQuestions() *assessment.Generated {
	return &assessment.Generated{
		SessionID: "sess-1",
		Skill:     "Python",
		Questions: []assessment.Question{
			{ID: "1", Kind: assessment.KindMultipleChoice, Prompt: "Which structure is LIFO?", Options: []string{"Queue", "Stack", "Tree", "Graph"}},
			{ID: "6", Kind: assessment.KindCoding, Prompt: "Reverse a string.", Language: "python", StarterCode: "def rev(s):\n"},
		},
	}
}

func newTestScreen(t *testing.T, client *mockClient, opts assessment.Options) (*ExamScreen, *assessment.Machine) {
	t.Helper()
	m := assessment.NewMachine(opts)
	if err := m.SelectSkill("Python"); err != nil {
		t.Fatalf("select skill: %v", err)
	}
	scr := New(context.Background(), m, client, zerolog.Nop())
	return scr, m
}

// startExam runs Init and feeds the generation response back.
func startExam(t *testing.T, client *mockClient, opts assessment.Options) (*ExamScreen, *assessment.Machine) {
	t.Helper()
	scr, m := newTestScreen(t, client, opts)
	cmd := scr.Init()
	if cmd == nil {
		t.Fatal("expected generation command from Init")
	}
	scr.Update(cmd())
	if m.Phase() != assessment.PhaseActive {
		t.Fatalf("expected active phase, got %s", m.Phase())
	}
	return scr, m
}

func TestInitGeneratesAndActivates(t *testing.T) {
	client := &mockClient{gen: testQuestions()}
	scr, m := newTestScreen(t, client, assessment.Options{})

	cmd := scr.Init()
	if m.Phase() != assessment.PhaseGenerating {
		t.Errorf("expected generating after Init, got %s", m.Phase())
	}
	msg := cmd()
	if _, ok := msg.(generatedMsg); !ok {
		t.Fatalf("expected generatedMsg, got %T", msg)
	}

	_, tick := scr.Update(msg)
	if tick == nil {
		t.Error("expected timer tick to be scheduled")
	}
	if m.Phase() != assessment.PhaseActive {
		t.Errorf("expected active, got %s", m.Phase())
	}
	if len(client.skills) != 1 || client.skills[0] != "Python" {
		t.Errorf("expected one generate call for Python, got %v", client.skills)
	}
	if len(scr.pickers) != 1 || len(scr.editors) != 1 {
		t.Errorf("expected 1 picker and 1 editor, got %d and %d", len(scr.pickers), len(scr.editors))
	}
}

func TestGenerationFailureReturnsToSelect(t *testing.T) {
	client := &mockClient{genErr: errors.New("boom")}
	scr, m := newTestScreen(t, client, assessment.Options{})

	_, cmd := scr.Update(scr.Init()())
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	if _, ok := cmd().(screen.ShowSelectMsg); !ok {
		t.Error("expected ShowSelectMsg after failed generation")
	}
	if m.Phase() != assessment.PhaseSelecting {
		t.Errorf("expected selecting, got %s", m.Phase())
	}
	if m.Session().LastError() != "Failed to generate assessment" {
		t.Errorf("unexpected last error %q", m.Session().LastError())
	}
}

func TestChoosingOptionRecordsAnswer(t *testing.T) {
	scr, m := startExam(t, &mockClient{gen: testQuestions()}, assessment.Options{})

	scr.Update(keyPress('c'))
	a, ok := m.Session().Answer("1")
	if !ok || a.Option != 2 {
		t.Fatalf("expected option 2 recorded, got %+v (ok=%v)", a, ok)
	}

	scr.Update(specialKey(tea.KeyUp))
	scr.Update(specialKey(tea.KeyEnter))
	a, _ = m.Session().Answer("1")
	if a.Option != 1 {
		t.Errorf("expected changed answer 1, got %d", a.Option)
	}
}

func TestCodeEditingRecordsAnswer(t *testing.T) {
	scr, m := startExam(t, &mockClient{gen: testQuestions()}, assessment.Options{})

	scr.Update(specialKey(tea.KeyRight))
	if scr.current != 1 {
		t.Fatalf("expected second question, got %d", scr.current)
	}
	scr.Update(specialKey(tea.KeyEnter))
	if !scr.editing() {
		t.Fatal("expected editor focus after enter")
	}

	scr.Update(keyPress('x'))
	a, ok := m.Session().Answer("6")
	if !ok || !strings.Contains(a.Text, "x") {
		t.Errorf("expected typed text recorded, got %+v", a)
	}

	scr.Update(specialKey(tea.KeyEscape))
	if scr.editing() {
		t.Error("expected esc to stop editing")
	}
}

func TestThreeSignalsTerminate(t *testing.T) {
	client := &mockClient{gen: testQuestions(), res: &assessment.Result{Terminated: true}}
	scr, m := startExam(t, client, assessment.Options{})

	scr.Update(tea.MouseClickMsg{Button: tea.MouseRight})
	if got := m.Session().Warning(); got != "⚠ Right-click blocked (Strike 1/3)" {
		t.Errorf("unexpected warning %q", got)
	}
	scr.Update(tea.BlurMsg{})
	if m.Session().StrikeCount() != 2 {
		t.Fatalf("expected 2 strikes, got %d", m.Session().StrikeCount())
	}

	_, cmd := scr.Update(ctrlKey('c'))
	if cmd == nil {
		t.Fatal("expected submit command on third strike")
	}
	if m.Phase() != assessment.PhaseSubmitting {
		t.Errorf("expected submitting, got %s", m.Phase())
	}
	if !m.Session().Terminated() {
		t.Error("expected terminated session")
	}

	// Further signals are inert.
	scr.Update(tea.BlurMsg{})
	if m.Session().StrikeCount() != 3 {
		t.Errorf("expected strikes to stay at 3, got %d", m.Session().StrikeCount())
	}

	_, cmd = scr.Update(submittedMsg{Result: &assessment.Result{Terminated: true}})
	if _, ok := cmd().(screen.ShowResultMsg); !ok {
		t.Error("expected ShowResultMsg after submission")
	}
}

func TestCopyKeyDoesNotReachEditor(t *testing.T) {
	scr, m := startExam(t, &mockClient{gen: testQuestions()}, assessment.Options{})
	scr.Update(specialKey(tea.KeyRight))
	scr.Update(specialKey(tea.KeyEnter))

	scr.Update(ctrlKey('c'))
	if m.Session().StrikeCount() != 1 {
		t.Errorf("expected 1 strike, got %d", m.Session().StrikeCount())
	}
	if _, ok := m.Session().Answer("6"); ok {
		t.Error("copy chord must not edit the answer")
	}
}

func TestClearWarning(t *testing.T) {
	scr, m := startExam(t, &mockClient{gen: testQuestions()}, assessment.Options{})
	scr.Update(tea.BlurMsg{})
	w := m.Session().Warning()
	if w == "" {
		t.Fatal("expected a warning")
	}

	scr.Update(clearWarningMsg{Text: w})
	if m.Session().Warning() != "" {
		t.Error("expected warning cleared")
	}
}

func TestSignalsIgnoredBeforeExamStarts(t *testing.T) {
	client := &mockClient{gen: testQuestions()}
	scr, m := newTestScreen(t, client, assessment.Options{})
	cmd := scr.Init()

	scr.Update(tea.BlurMsg{})
	scr.Update(cmd())
	if m.Session().StrikeCount() != 0 {
		t.Errorf("expected no strikes, got %d", m.Session().StrikeCount())
	}
}

func TestTickFromOtherScreenIgnored(t *testing.T) {
	client := &mockClient{gen: testQuestions()}
	scr, m := startExam(t, client, assessment.Options{ExamDuration: 10 * time.Second})
	old, _ := newTestScreen(t, client, assessment.Options{})

	_, cmd := scr.Update(timerTickMsg{Screen: old.id, At: time.Now()})
	if cmd != nil {
		t.Error("expected no new tick loop from a foreign tick")
	}
	if m.Session().TimeRemaining() != 10 {
		t.Errorf("expected timer untouched, got %d", m.Session().TimeRemaining())
	}

	_, cmd = scr.Update(timerTickMsg{Screen: scr.id, At: time.Now()})
	if cmd == nil {
		t.Error("expected own tick to reschedule")
	}
	if m.Session().TimeRemaining() != 9 {
		t.Errorf("expected 9s left, got %d", m.Session().TimeRemaining())
	}
}

func TestTimeoutSubmits(t *testing.T) {
	client := &mockClient{gen: testQuestions(), res: &assessment.Result{Score: 0, TotalMCQ: 1}}
	scr, m := startExam(t, client, assessment.Options{ExamDuration: 2 * time.Second})

	scr.Update(timerTickMsg{Screen: scr.id, At: time.Now()})
	if m.Session().TimeRemaining() != 1 {
		t.Errorf("expected 1s left, got %d", m.Session().TimeRemaining())
	}
	scr.Update(timerTickMsg{Screen: scr.id, At: time.Now()})
	if m.Phase() != assessment.PhaseSubmitting {
		t.Fatalf("expected submitting after expiry, got %s", m.Phase())
	}
	if m.Session().Cause() != assessment.CauseTimeout {
		t.Errorf("expected timeout cause, got %s", m.Session().Cause())
	}
}

func TestConfirmSubmit(t *testing.T) {
	client := &mockClient{gen: testQuestions(), res: &assessment.Result{Score: 1, TotalMCQ: 1, Percentage: 100}}
	scr, m := startExam(t, client, assessment.Options{})
	scr.Update(keyPress('b'))

	scr.Update(ctrlKey('s'))
	if !scr.confirming {
		t.Fatal("expected confirmation prompt")
	}
	scr.Update(keyPress('n'))
	if scr.confirming || m.Phase() != assessment.PhaseActive {
		t.Fatal("expected cancel to keep the exam running")
	}

	scr.Update(ctrlKey('s'))
	_, cmd := scr.Update(keyPress('y'))
	if m.Phase() != assessment.PhaseSubmitting {
		t.Fatalf("expected submitting, got %s", m.Phase())
	}

	msg := cmd()
	if _, ok := msg.(submittedMsg); !ok {
		t.Fatalf("expected submittedMsg, got %T", msg)
	}
	if len(client.subs) != 1 || client.subs[0].Values()["1"] != 1 {
		t.Errorf("unexpected submission %+v", client.subs)
	}

	_, cmd = scr.Update(msg)
	if _, ok := cmd().(screen.ShowResultMsg); !ok {
		t.Error("expected ShowResultMsg")
	}
	if m.Phase() != assessment.PhaseCompleted {
		t.Errorf("expected completed, got %s", m.Phase())
	}
}

func TestSubmitFailureKeepsExam(t *testing.T) {
	client := &mockClient{gen: testQuestions(), subErr: errors.New("connection refused")}
	scr, m := startExam(t, client, assessment.Options{})
	scr.Update(keyPress('a'))
	scr.Update(ctrlKey('s'))
	_, cmd := scr.Update(keyPress('y'))

	_, next := scr.Update(cmd())
	if next != nil {
		t.Error("expected no navigation after failed submit")
	}
	if m.Phase() != assessment.PhaseActive {
		t.Errorf("expected active after failed submit, got %s", m.Phase())
	}
	if _, ok := m.Session().Answer("1"); !ok {
		t.Error("expected answers kept")
	}
	if !strings.Contains(scr.View(100, 40), "Submit failed") {
		t.Error("expected error shown in view")
	}
}

func TestCapturesAndStatus(t *testing.T) {
	client := &mockClient{gen: testQuestions()}
	scr, _ := newTestScreen(t, client, assessment.Options{})
	if scr.CapturesKey("ctrl+c") {
		t.Error("ctrl+c should quit before the exam starts")
	}

	scr, _ = startExam(t, client, assessment.Options{})
	if !scr.CapturesKey("ctrl+c") || !scr.CapturesKey("esc") {
		t.Error("expected ctrl+c and esc captured during the exam")
	}
	st := scr.Status()
	if st.Clock != "30:00" || st.Max != 3 || st.Strikes != 0 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestTerminalSignals(t *testing.T) {
	src := terminalSignals{}
	tests := []struct {
		name string
		ev   any
		copy bool
		menu bool
		blur bool
	}{
		{"ctrl+c", ctrlKey('c'), true, false, false},
		{"ctrl+insert", tea.KeyPressMsg{Code: tea.KeyInsert, Mod: tea.ModCtrl}, true, false, false},
		{"super+c", tea.KeyPressMsg{Code: 'c', Mod: tea.ModSuper}, true, false, false},
		{"plain c", keyPress('c'), false, false, false},
		{"right click", tea.MouseClickMsg{Button: tea.MouseRight}, false, true, false},
		{"left click", tea.MouseClickMsg{Button: tea.MouseLeft}, false, false, false},
		{"blur", tea.BlurMsg{}, false, false, true},
		{"focus", tea.FocusMsg{}, false, false, false},
	}
	for _, tt := range tests {
		if got := src.Copy(tt.ev); got != tt.copy {
			t.Errorf("%s: Copy = %v, want %v", tt.name, got, tt.copy)
		}
		if got := src.ContextMenu(tt.ev); got != tt.menu {
			t.Errorf("%s: ContextMenu = %v, want %v", tt.name, got, tt.menu)
		}
		if got := src.VisibilityLost(tt.ev); got != tt.blur {
			t.Errorf("%s: VisibilityLost = %v, want %v", tt.name, got, tt.blur)
		}
	}
}
