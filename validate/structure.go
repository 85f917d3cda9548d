package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/gesad-lab/baes-demo-sub001/syntax"
)

var (
	funcNameRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	typeNameRE = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// ValidateStructure parses code and scores its declarations for naming
// conventions, annotations, and description strings. A syntax error is
// an immediate confident rejection.
func (e *Engine) ValidateStructure(code string) Result {
	f, err := syntax.Parse(code)
	if err != nil {
		var pos string
		var serr *syntax.SyntaxError
		if errors.As(err, &serr) {
			pos = fmt.Sprintf(" at line %d, column %d", serr.Pos.Line, serr.Pos.Column)
		}
		return Result{
			Outcome:         Rejection,
			ConfidenceScore: -1.0,
			Feedback:        fmt.Sprintf("code does not parse%s: %v", pos, err),
		}
	}

	var (
		matches []Match
		passed  int
		failed  int
	)
	record := func(m Match) {
		if m.Passed {
			passed++
		} else {
			failed++
		}
		matches = append(matches, m)
	}
	for _, d := range f.Decls {
		record(checkNaming(d))
		if d.Kind == syntax.DeclFunc {
			record(checkAnnotations(d))
		}
		record(checkDoc(d))
	}
	if passed+failed == 0 {
		return Result{
			Outcome:                  Uncertain,
			RequiresGenerativeReview: true,
			Feedback:                 "code declares no functions or types",
		}
	}

	score := float64(passed-failed) / float64(passed+failed)
	outcome, review := classifyScore(score, structureApprovalThreshold, structureRejectionThreshold)
	res := Result{
		Outcome:                  outcome,
		ConfidenceScore:          score,
		Matches:                  matches,
		RequiresGenerativeReview: review,
	}
	if outcome == Rejection {
		res.Feedback = rejectionFeedback(matches)
	}
	e.log.Debug("structural validation",
		zap.Int("declarations", len(f.Decls)),
		zap.Float64("score", score),
		zap.String("outcome", string(outcome)),
	)
	return res
}

// checkNaming verifies the declaration name follows the convention for
// its kind: snake_case for functions, PascalCase for types. Generated
// test functions are exempt.
func checkNaming(d *syntax.Decl) Match {
	m := Match{RuleID: "structure_naming", Confidence: 1, Line: d.Line, Passed: true}
	switch {
	case d.Kind == syntax.DeclFunc && strings.HasPrefix(d.Name, "test_"):
		return m
	case d.Kind == syntax.DeclFunc && !funcNameRE.MatchString(d.Name):
		m.Passed = false
		m.Message = fmt.Sprintf("function %q is not snake_case", d.Name)
		m.Suggestion = "rename the function to snake_case"
	case d.Kind == syntax.DeclType && !typeNameRE.MatchString(d.Name):
		m.Passed = false
		m.Message = fmt.Sprintf("type %q is not PascalCase", d.Name)
		m.Suggestion = "rename the type to PascalCase"
	}
	return m
}

// checkAnnotations verifies every parameter and the return value of a
// function carry a type annotation. Receiver parameters are exempt.
func checkAnnotations(d *syntax.Decl) Match {
	m := Match{RuleID: "structure_annotations", Confidence: 1, Line: d.Line, Passed: true}
	var missing []string
	for _, p := range d.Params {
		if p.Name == "self" || p.Name == "cls" {
			continue
		}
		if p.Type == "" {
			missing = append(missing, p.Name)
		}
	}
	if d.ReturnType == "" {
		missing = append(missing, "return value")
	}
	if len(missing) > 0 {
		m.Passed = false
		m.Message = fmt.Sprintf("%s %q is missing annotations for: %s",
			d.Kind, d.Name, strings.Join(missing, ", "))
		m.Suggestion = "annotate every parameter and the return type"
	}
	return m
}

// checkDoc verifies the declaration carries a description string.
func checkDoc(d *syntax.Decl) Match {
	m := Match{RuleID: "structure_doc", Confidence: 1, Line: d.Line, Passed: d.Doc != ""}
	if !m.Passed {
		m.Message = fmt.Sprintf("%s %q has no description string", d.Kind, d.Name)
		m.Suggestion = "add a doc string describing the declaration"
	}
	return m
}
