package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSkill is returned when generation is requested without a skill.
	ErrNoSkill = errors.New("no skill selected")

	// ErrNoQuestions is returned when generation yields an empty set.
	ErrNoQuestions = errors.New("assessment has no questions")

	// ErrUnknownQuestion is returned when answering a question that is not
	// part of the session.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrOptionOutOfRange is returned for an option index outside the
	// question's options.
	ErrOptionOutOfRange = errors.New("option index out of range")

	// ErrKindMismatch is returned when the answer type does not match the
	// question kind.
	ErrKindMismatch = errors.New("answer kind does not match question")
)

// PhaseError reports an operation attempted in the wrong phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s not allowed while %s", e.Op, e.Phase)
}

// GenerationError wraps a failed question generation.
type GenerationError struct {
	Skill string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate assessment for %q: %v", e.Skill, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SubmissionError wraps a failed submission.
type SubmissionError struct {
	SessionID string
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit assessment %s: %v", e.SessionID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// userMessager is implemented by errors that carry text meant for the
// user, such as an API error body.
type userMessager interface {
	UserMessage() string
}

// UserMessage returns the user-facing text for err, or fallback when no
// error in the chain provides one.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
