package proctor

// Signal is one class of integrity-violating user action.
type Signal int

const (
	SignalVisibilityLost Signal = iota // Focus moved away from the exam
	SignalContextMenu                  // Right-click / context menu invoked
	SignalCopy                         // Clipboard copy invoked
)

// Reason returns the strike reason shown to the user.
func (s Signal) Reason() string {
	switch s {
	case SignalVisibilityLost:
		return "Tab switch detected"
	case SignalContextMenu:
		return "Right-click blocked"
	case SignalCopy:
		return "Copy detected"
	default:
		return "Unknown violation"
	}
}

func (s Signal) String() string {
	switch s {
	case SignalVisibilityLost:
		return "visibility-lost"
	case SignalContextMenu:
		return "context-menu"
	case SignalCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Source classifies a single underlying UI event. Each method reports
// whether the event carries that signal class.
type Source interface {
	VisibilityLost(ev any) bool
	ContextMenu(ev any) bool
	Copy(ev any) bool
}

// Detect returns every signal carried by ev, in a fixed order. An event
// yields each class at most once.
func Detect(src Source, ev any) []Signal {
	var out []Signal
	if src.VisibilityLost(ev) {
		out = append(out, SignalVisibilityLost)
	}
	if src.ContextMenu(ev) {
		out = append(out, SignalContextMenu)
	}
	if src.Copy(ev) {
		out = append(out, SignalCopy)
	}
	return out
}
