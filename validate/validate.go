// Package validate scores generated artifacts with pattern rules and a
// structural pass over the parsed syntax representation.
package validate

// Outcome classifies a validation result.
type Outcome string

const (
	// Approval means the artifact needs no further review.
	Approval Outcome = "confident_approval"
	// Rejection means the artifact must be regenerated or patched.
	Rejection Outcome = "confident_rejection"
	// Uncertain means the result is inconclusive and a generative
	// review is required.
	Uncertain Outcome = "uncertain"
)

// Pattern-pass classification thresholds.
const (
	patternApprovalThreshold  = 0.7
	patternRejectionThreshold = -0.3
)

// Structural-pass classification thresholds.
const (
	structureApprovalThreshold  = 0.5
	structureRejectionThreshold = -0.3
)

// Match records how one rule or structural check applied to the code.
type Match struct {
	RuleID     string  `json:"rule_id"`
	Passed     bool    `json:"passed"`
	Confidence float64 `json:"confidence"`
	Line       int     `json:"line,omitempty"`
	Message    string  `json:"message,omitempty"`
	Suggestion string  `json:"suggestion,omitempty"`
}

// Result is the outcome of one validation pass.
type Result struct {
	Outcome                  Outcome `json:"outcome"`
	ConfidenceScore          float64 `json:"confidence_score"`
	Matches                  []Match `json:"matches,omitempty"`
	RequiresGenerativeReview bool    `json:"requires_generative_review"`
	Feedback                 string  `json:"feedback,omitempty"`
}

// classify maps a score to an outcome given the pass thresholds.
func classifyScore(score, approve, reject float64) (Outcome, bool) {
	switch {
	case score >= approve:
		return Approval, false
	case score <= reject:
		return Rejection, false
	default:
		return Uncertain, true
	}
}
