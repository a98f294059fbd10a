// Package assessment implements the proctored exam session engine: the
// phase machine that takes one attempt from skill selection through
// generation, the timed and proctored active phase, submission, and the
// result.
//
// A Machine is not safe for concurrent use. It is meant to be driven from
// a single event loop; network calls run elsewhere and report back through
// CompleteGeneration and CompleteSubmission.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/skillcheck/internal/examtimer"
	"github.com/abhisek/skillcheck/internal/proctor"
)

// ErrNoResult is returned when a submission succeeds without a result.
var ErrNoResult = errors.New("submission returned no result")

// ErrDuplicateQuestion is returned when a generated set repeats an id.
var ErrDuplicateQuestion = errors.New("duplicate question id")

// TimerPolicy decides what the countdown does when a failed submission
// returns the session to the active phase.
type TimerPolicy int

const (
	// TimerFreeze keeps the countdown stopped at the value it had when
	// submission began.
	TimerFreeze TimerPolicy = iota

	// TimerResume restarts the countdown from where it stopped.
	TimerResume
)

func (p TimerPolicy) String() string {
	if p == TimerResume {
		return "resume"
	}
	return "freeze"
}

// ParseTimerPolicy parses "freeze" or "resume".
func ParseTimerPolicy(s string) (TimerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "freeze":
		return TimerFreeze, nil
	case "resume":
		return TimerResume, nil
	default:
		return TimerFreeze, fmt.Errorf("unknown timer policy %q", s)
	}
}

// Options configures a Machine.
type Options struct {
	// ExamDuration is the countdown loaded at the start of every exam.
	// Rounded down to whole seconds. Anything under a second means
	// DefaultExamDuration.
	ExamDuration time.Duration

	// TimerPolicy applies after a failed submission. Default: TimerFreeze.
	TimerPolicy TimerPolicy

	// Logger receives transition and strike events. The zero value
	// discards everything.
	Logger zerolog.Logger

	// Now is the clock used for timestamps. Default: time.Now.
	Now func() time.Time
}

// Machine drives one assessment session at a time.
type Machine struct {
	opts    Options
	log     zerolog.Logger
	session *Session
	timer   *examtimer.Timer
	monitor *proctor.Monitor
}

// NewMachine creates a machine holding a fresh session in PhaseSelecting.
func NewMachine(opts Options) *Machine {
	if opts.ExamDuration < time.Second {
		opts.ExamDuration = DefaultExamDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Machine{
		opts: opts,
		log:  opts.Logger.With().Str("component", "assessment").Logger(),
	}
	m.reset()
	return m
}

func (m *Machine) reset() {
	m.session = newSession()
	m.timer = examtimer.New()
	m.monitor = proctor.NewMonitor(m.opts.Now)
}

// Session returns the current session.
func (m *Machine) Session() *Session { return m.session }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.session.phase }

// TimerUrgent reports whether the countdown should be highlighted.
func (m *Machine) TimerUrgent() bool { return m.timer.Urgent() }

// TimerFraction returns the share of exam time remaining.
func (m *Machine) TimerFraction() float64 { return m.timer.Fraction() }

// TimerRunning reports whether ticks currently advance the countdown.
func (m *Machine) TimerRunning() bool { return m.timer.Running() }

// Proctoring reports whether violations are currently being recorded.
func (m *Machine) Proctoring() bool { return m.monitor.Active() }

// ExamSeconds returns the full exam length in seconds.
func (m *Machine) ExamSeconds() int { return int(m.opts.ExamDuration / time.Second) }

func (m *Machine) transition(to Phase) {
	from := m.session.phase
	m.session.phase = to
	m.log.Info().
		Str("from", from.String()).
		Str("to", to.String()).
		Str("skill", m.session.skill).
		Str("session_id", m.session.id).
		Msg("phase transition")
}

// SelectSkill sets the skill to be assessed. Allowed only while selecting.
func (m *Machine) SelectSkill(skill string) error {
	s := m.session
	if s.phase != PhaseSelecting {
		return &PhaseError{Op: "select skill", Phase: s.phase}
	}
	s.skill = strings.TrimSpace(skill)
	s.lastError = ""
	return nil
}

// BeginGeneration confirms the selected skill and moves to
// PhaseGenerating. It returns the skill to request from the API.
func (m *Machine) BeginGeneration() (string, error) {
	s := m.session
	if s.phase != PhaseSelecting {
		return "", &PhaseError{Op: "start assessment", Phase: s.phase}
	}
	if s.skill == "" {
		return "", ErrNoSkill
	}
	s.lastError = ""
	m.transition(PhaseGenerating)
	return s.skill, nil
}

// CompleteGeneration applies the generation response. On success the
// exam becomes active with a full timer and live proctoring. On failure
// the session returns to PhaseSelecting with LastError set.
func (m *Machine) CompleteGeneration(gen *Generated, err error) error {
	s := m.session
	if s.phase != PhaseGenerating {
		return &PhaseError{Op: "complete generation", Phase: s.phase}
	}
	if err == nil {
		err = validateGenerated(gen)
	}
	if err != nil {
		s.lastError = UserMessage(err, "Failed to generate assessment")
		m.log.Warn().Err(err).Str("skill", s.skill).Msg("generation failed")
		m.transition(PhaseSelecting)
		return &GenerationError{Skill: s.skill, Err: err}
	}

	s.id = gen.SessionID
	s.questions = make([]Question, len(gen.Questions))
	copy(s.questions, gen.Questions)
	for i, q := range s.questions {
		s.index[q.ID] = i
	}

	m.timer.Reset(m.ExamSeconds())
	s.timeRemaining = m.timer.Remaining()
	m.monitor.Activate()
	s.startedAt = m.opts.Now()
	s.lastError = ""

	m.transition(PhaseActive)
	m.log.Info().
		Str("session_id", s.id).
		Int("questions", len(s.questions)).
		Int("seconds", s.timeRemaining).
		Msg("exam started")
	return nil
}

func validateGenerated(gen *Generated) error {
	if gen == nil || len(gen.Questions) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]bool, len(gen.Questions))
	for _, q := range gen.Questions {
		if seen[q.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

// Start runs selection and generation synchronously against c.
func (m *Machine) Start(ctx context.Context, c Client, skill string) error {
	if err := m.SelectSkill(skill); err != nil {
		return err
	}
	skill, err := m.BeginGeneration()
	if err != nil {
		return err
	}
	gen, err := c.Generate(ctx, skill)
	return m.CompleteGeneration(gen, err)
}

func (m *Machine) answerable(op, id string, kind QuestionKind) (Question, error) {
	s := m.session
	if s.phase != PhaseActive {
		return Question{}, &PhaseError{Op: op, Phase: s.phase}
	}
	q, ok := s.Question(id)
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if q.Kind != kind {
		return Question{}, fmt.Errorf("%w: %s is %s", ErrKindMismatch, id, q.Kind)
	}
	return q, nil
}

// RecordMultipleChoiceAnswer stores the chosen option for a question,
// replacing any earlier choice.
func (m *Machine) RecordMultipleChoiceAnswer(id string, option int) error {
	q, err := m.answerable("record answer", id, KindMultipleChoice)
	if err != nil {
		return err
	}
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d of %d", ErrOptionOutOfRange, option, len(q.Options))
	}
	m.session.mcq[id] = option
	return nil
}

// RecordCodeAnswer stores the editor text for a coding question,
// replacing any earlier text. Empty text leaves an unanswered question
// unanswered.
func (m *Machine) RecordCodeAnswer(id, text string) error {
	if _, err := m.answerable("record answer", id, KindCoding); err != nil {
		return err
	}
	if _, had := m.session.code[id]; !had && text == "" {
		return nil
	}
	m.session.code[id] = text
	return nil
}

// HandleTick advances the countdown by one second. When the countdown
// expires it returns the timeout submission; otherwise nil. Ticks outside
// the active phase have no effect.
func (m *Machine) HandleTick() *Submission {
	s := m.session
	if s.phase != PhaseActive {
		return nil
	}
	expired := m.timer.Tick()
	s.timeRemaining = m.timer.Remaining()
	if !expired {
		return nil
	}
	m.log.Info().Str("session_id", s.id).Msg("time expired")
	return m.beginSubmission(CauseTimeout)
}

// RecordViolations records integrity signals observed in one tick. When
// the batch reaches the strike cap the session is marked terminated and
// the termination submission is returned. Outside the active phase
// nothing is recorded.
func (m *Machine) RecordViolations(sigs ...proctor.Signal) (proctor.Outcome, *Submission) {
	s := m.session
	if s.phase != PhaseActive {
		return proctor.Outcome{Count: len(s.violations)}, nil
	}

	out := m.monitor.RecordAll(sigs...)
	for _, v := range out.Recorded {
		s.violations = append(s.violations, v)
		m.log.Warn().
			Str("session_id", s.id).
			Str("signal", v.Signal.String()).
			Int("strike", v.Strike).
			Msg(v.Reason)
	}
	if out.Warning != "" {
		s.warning = out.Warning
	}
	if !out.Terminated {
		return out, nil
	}

	// Termination outranks the cause of an earlier failed attempt.
	s.terminated = true
	s.cause = CauseTermination
	m.log.Warn().Str("session_id", s.id).Int("strikes", out.Count).Msg("exam terminated")
	return out, m.beginSubmission(CauseTermination)
}

// RequestSubmit handles an explicit submit request from the user.
func (m *Machine) RequestSubmit() (*Submission, error) {
	if m.session.phase != PhaseActive {
		return nil, &PhaseError{Op: "submit", Phase: m.session.phase}
	}
	return m.beginSubmission(CauseExplicit), nil
}

// beginSubmission stops the timer and proctoring, moves to
// PhaseSubmitting and assembles the payload. The first cause is kept for
// the lifetime of the session unless the session is later terminated.
func (m *Machine) beginSubmission(cause Cause) *Submission {
	s := m.session
	if s.phase != PhaseActive {
		return nil
	}

	m.timer.Stop()
	m.monitor.Deactivate()
	s.timeRemaining = m.timer.Remaining()
	if s.cause == CauseNone {
		s.cause = cause
	}
	s.lastError = ""

	m.transition(PhaseSubmitting)

	return &Submission{
		SessionID:  s.id,
		Answers:    s.Answers(),
		Terminated: s.terminated,
		Cause:      s.cause,
		At:         m.opts.Now(),
	}
}

// CompleteSubmission applies the grading response. On success the
// session completes with the result. On failure it returns to
// PhaseActive with every answer intact and LastError set.
func (m *Machine) CompleteSubmission(res *Result, err error) error {
	s := m.session
	if s.phase != PhaseSubmitting {
		return &PhaseError{Op: "complete submission", Phase: s.phase}
	}
	if err == nil && res == nil {
		err = ErrNoResult
	}
	if err != nil {
		s.lastError = UserMessage(err, "Submit failed")
		m.log.Warn().Err(err).Str("session_id", s.id).Msg("submission failed")

		if m.opts.TimerPolicy == TimerResume {
			m.timer.Resume()
		}
		if !s.terminated {
			m.monitor.Activate()
		}
		m.transition(PhaseActive)
		return &SubmissionError{SessionID: s.id, Err: err}
	}

	r := *res
	s.result = &r
	m.transition(PhaseCompleted)
	m.log.Info().
		Str("session_id", s.id).
		Int("score", r.Score).
		Int("total_mcq", r.TotalMCQ).
		Int("percentage", r.Percentage).
		Bool("terminated", s.terminated).
		Msg("exam completed")
	return nil
}

// Submit sends sub to c and applies the response.
func (m *Machine) Submit(ctx context.Context, c Client, sub *Submission) error {
	res, err := c.Submit(ctx, sub)
	return m.CompleteSubmission(res, err)
}

// ClearWarning removes the strike warning if it is still the one shown.
func (m *Machine) ClearWarning(text string) {
	if m.session.warning == text {
		m.session.warning = ""
	}
}

// Retake discards the completed session and starts a new one in
// PhaseSelecting.
func (m *Machine) Retake() error {
	if m.session.phase != PhaseCompleted {
		return &PhaseError{Op: "retake", Phase: m.session.phase}
	}
	m.log.Info().Str("session_id", m.session.id).Msg("retake")
	m.reset()
	return nil
}
