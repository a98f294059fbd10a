package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// MultiChoice lets the candidate pick one option of a question. The
// choice can be changed any number of times; grading happens elsewhere.
type MultiChoice struct {
	Options []string
	Cursor  int
	Chosen  int // -1 until an option is picked
}

// NewMultiChoice creates a picker. chosen restores an earlier answer;
// pass -1 for none.
func NewMultiChoice(options []string, chosen int) MultiChoice {
	if chosen < -1 || chosen >= len(options) {
		chosen = -1
	}
	cursor := chosen
	if cursor < 0 {
		cursor = 0
	}
	return MultiChoice{Options: options, Cursor: cursor, Chosen: chosen}
}

// OptionLabel returns the letter shown before option i.
func OptionLabel(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// Update moves the cursor and picks options. It reports whether the
// chosen option changed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, false
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, false
	case "enter", "space", " ":
		return m.pick(m.Cursor)
	}

	if len(key) == 1 {
		c := strings.ToUpper(key)[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return m.pick(int(c - 'A'))
		case c >= '1' && c <= '9':
			return m.pick(int(c - '1'))
		}
	}
	return m, false
}

func (m MultiChoice) pick(i int) (MultiChoice, bool) {
	if i < 0 || i >= len(m.Options) {
		return m, false
	}
	m.Cursor = i
	changed := m.Chosen != i
	m.Chosen = i
	return m, changed
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		mark := "( )"
		if i == m.Chosen {
			mark = "(●)"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, OptionLabel(i), opt)

		switch {
		case i == m.Chosen:
			b.WriteString(theme.Chosen.Render(line))
		case i == m.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(dim.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
