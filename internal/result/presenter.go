// Package result maps a finished assessment to what the result screen
// shows.
package result

import (
	"fmt"

	"github.com/abhisek/skillcheck/internal/assessment"
)

// PassThreshold is the percentage at or above which a score is styled
// as a pass.
const PassThreshold = 60

// Badge selects the headline icon of a summary.
type Badge int

const (
	BadgeScore Badge = iota
	BadgePass
	BadgeTerminated
)

func (b Badge) String() string {
	switch b {
	case BadgePass:
		return "🏆"
	case BadgeTerminated:
		return "🚫"
	default:
		return "📊"
	}
}

// Summary is the display model of a completed assessment.
type Summary struct {
	Badge   Badge
	Title   string
	Message string

	// ShowScore is false for terminated sessions; the score fields are
	// zero then.
	ShowScore  bool
	Score      int
	Total      int
	Percentage int
	Passed     bool

	Strikes int
	Cause   assessment.Cause
}

// Present builds the summary for a completed attempt. The terminated flag
// is the session's own; res may be nil when nothing came back.
func Present(terminated bool, res *assessment.Result) Summary {
	if terminated || res == nil {
		s := Summary{
			Badge:   BadgeTerminated,
			Title:   "Assessment Terminated",
			Message: "Too many violations were detected.",
		}
		if !terminated {
			s.Badge = BadgeScore
			s.Title = "Assessment Complete!"
			s.Message = "No result was returned."
		}
		return s
	}

	pct := clampPercent(res.Percentage)
	s := Summary{
		Badge:      BadgeScore,
		Title:      "Assessment Complete!",
		Message:    fmt.Sprintf("You scored %d/%d on MCQs", res.Score, res.TotalMCQ),
		ShowScore:  true,
		Score:      res.Score,
		Total:      res.TotalMCQ,
		Percentage: pct,
		Passed:     pct >= PassThreshold,
	}
	if s.Passed {
		s.Badge = BadgePass
	}
	return s
}

// FromSession presents a completed session, including its strike count
// and the reason it ended.
func FromSession(sess *assessment.Session) Summary {
	s := Present(sess.Terminated(), sess.Result())
	s.Strikes = sess.StrikeCount()
	s.Cause = sess.Cause()
	return s
}

// CauseText describes why the exam ended.
func CauseText(c assessment.Cause) string {
	switch c {
	case assessment.CauseTimeout:
		return "Time ran out. Answers were submitted automatically."
	case assessment.CauseTermination:
		return "Ended after repeated integrity violations."
	case assessment.CauseExplicit:
		return "Submitted by you."
	default:
		return ""
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
