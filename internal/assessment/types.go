package assessment

import (
	"context"
	"time"
)

// Phase is the lifecycle stage of an assessment session.
type Phase int

const (
	PhaseSelecting  Phase = iota // Choosing a skill
	PhaseGenerating              // Waiting for the question set
	PhaseActive                  // Exam running, timer and proctoring live
	PhaseSubmitting              // Waiting for grading
	PhaseCompleted               // Result available
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseGenerating:
		return "generating"
	case PhaseActive:
		return "active"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// QuestionKind distinguishes auto-graded questions from free-text ones.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindCoding         QuestionKind = "coding"
)

// Question is one item of a generated assessment. Immutable once received.
type Question struct {
	ID     string
	Kind   QuestionKind
	Prompt string

	// Options are the choices of a multiple-choice question. The answer
	// is encoded as an index into this slice.
	Options []string

	// Language and StarterCode apply to coding questions.
	Language    string
	StarterCode string
}

// Answer is a recorded response to one question.
type Answer struct {
	Kind   QuestionKind
	Option int    // multiple-choice
	Text   string // coding
}

// Value returns the answer in its wire encoding: an int for
// multiple-choice, a string for coding.
func (a Answer) Value() any {
	if a.Kind == KindMultipleChoice {
		return a.Option
	}
	return a.Text
}

// Cause records what moved a session out of the active phase.
type Cause int

const (
	CauseNone        Cause = iota
	CauseExplicit          // User asked to submit
	CauseTimeout           // Countdown reached zero
	CauseTermination       // Strike cap reached
)

func (c Cause) String() string {
	switch c {
	case CauseExplicit:
		return "submitted"
	case CauseTimeout:
		return "timeout"
	case CauseTermination:
		return "terminated"
	default:
		return "none"
	}
}

// Generated is a successful generation response.
type Generated struct {
	SessionID string
	Skill     string
	Questions []Question
}

// Submission is the payload assembled when a session starts submitting.
type Submission struct {
	SessionID  string
	Answers    map[string]Answer
	Terminated bool
	Cause      Cause
	At         time.Time
}

// Values returns the merged answer mapping in wire encoding.
func (s *Submission) Values() map[string]any {
	out := make(map[string]any, len(s.Answers))
	for id, a := range s.Answers {
		out[id] = a.Value()
	}
	return out
}

// Result is the grading outcome returned by the assessment API.
type Result struct {
	Score      int
	TotalMCQ   int
	Percentage int
	Terminated bool
}

// Client is the external assessment API.
type Client interface {
	// Generate creates a question set for skill.
	Generate(ctx context.Context, skill string) (*Generated, error)

	// Submit grades and stores a submission.
	Submit(ctx context.Context, sub *Submission) (*Result, error)
}

// DefaultSkills is the skill catalogue offered when none is configured.
var DefaultSkills = []string{
	"Python", "JavaScript", "Java", "React", "Node.js",
	"SQL", "DSA", "Machine Learning", "System Design", "C++",
}

// DefaultExamDuration is the length of an exam.
const DefaultExamDuration = 30 * time.Minute
