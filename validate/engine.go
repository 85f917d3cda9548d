package validate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

// Engine runs validation passes against an explicit rule catalog.
type Engine struct {
	catalog *Catalog
	log     *zap.Logger
}

// NewEngine returns an engine over the given catalog.
func NewEngine(catalog *Catalog, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: catalog, log: log}
}

// ValidatePattern scores code against the pattern rules registered for
// target. A target with no registered rules is always uncertain.
func (e *Engine) ValidatePattern(code string, target baes.Target) Result {
	rules := e.catalog.ForTarget(target)
	if len(rules) == 0 {
		return Result{
			Outcome:                  Uncertain,
			RequiresGenerativeReview: true,
			Feedback:                 fmt.Sprintf("no rules registered for target %q", target),
		}
	}

	var (
		matches   []Match
		score     float64
		evaluated int
	)
	for _, r := range rules {
		m := Match{RuleID: r.ID, Confidence: r.Confidence}
		if r.Disabled {
			// Disabled rules pass and stay out of the score.
			m.Passed = true
			m.Confidence = 0
			matches = append(matches, m)
			continue
		}
		evaluated++
		loc := r.re.FindStringIndex(code)
		m.Passed = (loc != nil) == (r.Type == MustHave)
		if m.Passed {
			score += r.Confidence
		} else {
			score -= r.Confidence
			m.Message = r.Message
			m.Suggestion = r.Suggestion
			if loc != nil {
				m.Line = 1 + strings.Count(code[:loc[0]], "\n")
			}
		}
		matches = append(matches, m)
	}
	if evaluated == 0 {
		return Result{
			Outcome:                  Uncertain,
			Matches:                  matches,
			RequiresGenerativeReview: true,
			Feedback:                 fmt.Sprintf("all rules for target %q are disabled", target),
		}
	}
	score /= float64(evaluated)

	outcome, review := classifyScore(score, patternApprovalThreshold, patternRejectionThreshold)
	res := Result{
		Outcome:                  outcome,
		ConfidenceScore:          score,
		Matches:                  matches,
		RequiresGenerativeReview: review,
	}
	if outcome == Rejection {
		res.Feedback = rejectionFeedback(matches)
	}
	e.log.Debug("pattern validation",
		zap.String("target", string(target)),
		zap.Float64("score", score),
		zap.String("outcome", string(outcome)),
	)
	return res
}

// rejectionFeedback renders line-numbered feedback from the failed
// matches, one line per failure with its suggestion.
func rejectionFeedback(matches []Match) string {
	var b strings.Builder
	for _, m := range matches {
		if m.Passed {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if m.Line > 0 {
			fmt.Fprintf(&b, "line %d: ", m.Line)
		}
		b.WriteString(m.Message)
		if m.Suggestion != "" {
			fmt.Fprintf(&b, " (fix: %s)", m.Suggestion)
		}
	}
	return b.String()
}
