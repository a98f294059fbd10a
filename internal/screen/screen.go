package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a countdown or
// strike count in the header.
type StatusProvider interface {
	Status() layout.Status
}

// KeyCapturer is implemented by screens that need keys the app would
// otherwise handle itself, such as ctrl+c during a proctored exam.
type KeyCapturer interface {
	CapturesKey(key string) bool
}

// Navigation requests handled by the app. Screens emit them instead of
// constructing each other.
type (
	// ShowSelectMsg shows skill selection for the current session.
	ShowSelectMsg struct{}

	// StartExamMsg starts generation for the selected skill.
	StartExamMsg struct{}

	// ShowResultMsg shows the result of the completed session.
	ShowResultMsg struct{}
)
