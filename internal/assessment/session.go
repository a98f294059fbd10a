package assessment

import (
	"time"

	"github.com/abhisek/skillcheck/internal/proctor"
)

// Session is one assessment attempt. It is owned and written only by a
// Machine; everything else reads it through the accessors.
type Session struct {
	id        string
	skill     string
	phase     Phase
	questions []Question
	index     map[string]int // question id -> position

	mcq  map[string]int
	code map[string]string

	timeRemaining int
	violations    []proctor.Violation
	terminated    bool
	cause         Cause
	result        *Result

	startedAt time.Time
	lastError string
	warning   string
}

func newSession() *Session {
	return &Session{
		phase: PhaseSelecting,
		index: make(map[string]int),
		mcq:   make(map[string]int),
		code:  make(map[string]string),
	}
}

// ID returns the API-assigned session identifier, empty before generation.
func (s *Session) ID() string { return s.id }

// Skill returns the selected skill.
func (s *Session) Skill() string { return s.skill }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Questions returns a copy of the ordered question set.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Question returns the question with id.
func (s *Session) Question(id string) (Question, bool) {
	i, ok := s.index[id]
	if !ok {
		return Question{}, false
	}
	return s.questions[i], true
}

// Answer returns the recorded answer for a question.
func (s *Session) Answer(id string) (Answer, bool) {
	if idx, ok := s.mcq[id]; ok {
		return Answer{Kind: KindMultipleChoice, Option: idx}, true
	}
	if text, ok := s.code[id]; ok {
		return Answer{Kind: KindCoding, Text: text}, true
	}
	return Answer{}, false
}

// Answers returns the merged answer mapping keyed by question id.
func (s *Session) Answers() map[string]Answer {
	out := make(map[string]Answer, len(s.mcq)+len(s.code))
	for id, idx := range s.mcq {
		out[id] = Answer{Kind: KindMultipleChoice, Option: idx}
	}
	for id, text := range s.code {
		out[id] = Answer{Kind: KindCoding, Text: text}
	}
	return out
}

// Answered reports whether a question has a non-empty answer.
func (s *Session) Answered(id string) bool {
	if _, ok := s.mcq[id]; ok {
		return true
	}
	return s.code[id] != ""
}

// AnsweredCount returns the number of questions with a non-empty answer.
func (s *Session) AnsweredCount() int {
	n := len(s.mcq)
	for _, text := range s.code {
		if text != "" {
			n++
		}
	}
	return n
}

// TimeRemaining returns the countdown value in seconds.
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// StrikeCount returns the number of recorded violations.
func (s *Session) StrikeCount() int { return len(s.violations) }

// Violations returns a copy of the violation log.
func (s *Session) Violations() []proctor.Violation {
	out := make([]proctor.Violation, len(s.violations))
	copy(out, s.violations)
	return out
}

// Terminated reports whether the strike cap ended the session.
func (s *Session) Terminated() bool { return s.terminated }

// Cause returns what first moved the session out of the active phase.
func (s *Session) Cause() Cause { return s.cause }

// Result returns the grading result; nil unless completed.
func (s *Session) Result() *Result { return s.result }

// StartedAt returns when the exam became active.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// LastError returns the message of the most recent recoverable failure.
func (s *Session) LastError() string { return s.lastError }

// Warning returns the current transient strike warning.
func (s *Session) Warning() string { return s.warning }
