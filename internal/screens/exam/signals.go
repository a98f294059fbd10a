package exam

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/proctor"
)

// terminalSignals maps terminal events onto integrity signals: losing
// terminal focus, a right click, and the copy chords.
type terminalSignals struct{}

var _ proctor.Source = terminalSignals{}

func (terminalSignals) VisibilityLost(ev any) bool {
	_, ok := ev.(tea.BlurMsg)
	return ok
}

func (terminalSignals) ContextMenu(ev any) bool {
	m, ok := ev.(tea.MouseClickMsg)
	return ok && m.Button == tea.MouseRight
}

func (terminalSignals) Copy(ev any) bool {
	k, ok := ev.(tea.KeyPressMsg)
	if !ok {
		return false
	}
	switch k.String() {
	case "ctrl+c", "ctrl+shift+c", "ctrl+insert", "super+c":
		return true
	}
	return false
}
