package exam

import (
	"time"

	"github.com/abhisek/skillcheck/internal/assessment"
)

// generatedMsg carries the generation response.
type generatedMsg struct {
	Gen *assessment.Generated
	Err error
}

// submittedMsg carries the grading response.
type submittedMsg struct {
	Result *assessment.Result
	Err    error
}

// timerTickMsg is sent every second while the exam screen is alive.
// Screen identifies the exam screen whose loop scheduled it.
type timerTickMsg struct {
	Screen uint64
	At     time.Time
}

// clearWarningMsg hides a strike warning once its display time is over.
type clearWarningMsg struct {
	Text string
}
