package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/screen"
)

type fakeClient struct{}

func (fakeClient) Generate(_ context.Context, skill string) (*assessment.Generated, error) {
	return &assessment.Generated{
		SessionID: "s1",
		Skill:     skill,
		Questions: []assessment.Question{
			{ID: "1", Kind: assessment.KindMultipleChoice, Prompt: "?", Options: []string{"a", "b"}},
		},
	}, nil
}

func (fakeClient) Submit(context.Context, *assessment.Submission) (*assessment.Result, error) {
	return &assessment.Result{Score: 1, TotalMCQ: 1, Percentage: 100}, nil
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// startExam drives the model from selection into an active exam.
func startExam(t *testing.T) AppModel {
	t.Helper()
	m := newAppModel(context.Background(), Options{Client: fakeClient{}, Skills: []string{"Go"}})
	if err := m.machine.SelectSkill("Go"); err != nil {
		t.Fatal(err)
	}
	model, cmd := m.Update(screen.StartExamMsg{})
	m = model.(AppModel)
	if cmd == nil {
		t.Fatal("expected generation command")
	}
	model, _ = m.Update(cmd())
	m = model.(AppModel)
	if m.machine.Phase() != assessment.PhaseActive {
		t.Fatalf("expected active exam, got %s", m.machine.Phase())
	}
	return m
}

func TestCtrlCQuitsOutsideExam(t *testing.T) {
	m := newAppModel(context.Background(), Options{Client: fakeClient{}})
	_, cmd := m.Update(ctrlKey('c'))
	if !isQuit(cmd) {
		t.Error("expected ctrl+c to quit on the selection screen")
	}
}

func TestCtrlCCapturedDuringExam(t *testing.T) {
	m := startExam(t)
	_, cmd := m.Update(ctrlKey('c'))
	if isQuit(cmd) {
		t.Error("expected ctrl+c to be treated as a copy attempt")
	}
	if got := m.machine.Session().StrikeCount(); got != 1 {
		t.Errorf("expected 1 strike, got %d", got)
	}
}

func TestCtrlQAlwaysQuits(t *testing.T) {
	m := startExam(t)
	_, cmd := m.Update(ctrlKey('q'))
	if !isQuit(cmd) {
		t.Error("expected ctrl+q to quit")
	}
}

func TestNavigationResetsStack(t *testing.T) {
	m := startExam(t)
	if got := m.router.Active().Title(); got != "Assessment: Go" {
		t.Errorf("expected exam screen, got %q", got)
	}

	sub, err := m.machine.RequestSubmit()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.machine.Submit(context.Background(), fakeClient{}, sub); err != nil {
		t.Fatal(err)
	}

	model, _ := m.Update(screen.ShowResultMsg{})
	m = model.(AppModel)
	if got := m.router.Active().Title(); got != "Result" {
		t.Errorf("expected result screen, got %q", got)
	}
	if m.router.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", m.router.Depth())
	}

	model, _ = m.Update(screen.ShowSelectMsg{})
	m = model.(AppModel)
	if got := m.router.Active().Title(); got != "Choose a Skill" {
		t.Errorf("expected selection screen, got %q", got)
	}
}

func TestPreselectedSkillStartsExam(t *testing.T) {
	m := newAppModel(context.Background(), Options{Client: fakeClient{}, Skill: "Rust"})
	if got := m.router.Active().Title(); got != "Assessment: Rust" {
		t.Errorf("expected exam screen, got %q", got)
	}
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected generation command")
	}
	if m.machine.Phase() != assessment.PhaseGenerating {
		t.Errorf("expected generating, got %s", m.machine.Phase())
	}
}

func TestViewEnablesFocusReporting(t *testing.T) {
	m := newAppModel(context.Background(), Options{Client: fakeClient{}})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	v := model.(AppModel).View()
	if !v.AltScreen || !v.ReportFocus {
		t.Error("expected alt screen with focus reporting")
	}
}
