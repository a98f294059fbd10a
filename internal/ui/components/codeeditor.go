package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

const indent = "    "

// CodeEditor is a multi-line editor for coding answers.
type CodeEditor struct {
	Language string
	area     textarea.Model
}

// NewCodeEditor creates an unfocused editor holding text.
func NewCodeEditor(language, text string) CodeEditor {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Placeholder = "Write your solution here..."
	ta.CharLimit = 0
	ta.SetValue(text)
	ta.Blur()
	return CodeEditor{Language: language, area: ta}
}

// Focus starts editing.
func (e *CodeEditor) Focus() {
	e.area.Focus()
}

// Blur stops editing.
func (e *CodeEditor) Blur() {
	e.area.Blur()
}

// Focused reports whether keys go to the editor.
func (e CodeEditor) Focused() bool {
	return e.area.Focused()
}

// SetSize fits the editor into width x height cells.
func (e *CodeEditor) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	e.area.SetWidth(width)
	e.area.SetHeight(height)
}

// Value returns the editor text.
func (e CodeEditor) Value() string {
	return e.area.Value()
}

// Update forwards input to the editor. Tab inserts spaces.
func (e CodeEditor) Update(msg tea.Msg) (CodeEditor, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "tab" && e.area.Focused() {
		e.area.InsertString(indent)
		return e, nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd
}

// View renders the editor framed, highlighted while focused.
func (e CodeEditor) View() string {
	border := theme.Border
	if e.area.Focused() {
		border = theme.Primary
	}
	lang := ""
	if e.Language != "" {
		lang = lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.Language) + "\n"
	}
	return lang + lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(e.area.View())
}
