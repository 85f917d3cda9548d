// Package classify decides whether an entity schema is simple enough
// for template-based generation or requires the generative fallback.
//
// Classification is a pure, deterministic function of the schema: same
// input always yields same output, with no I/O and no hidden state.
package classify

import (
	"fmt"
	"strings"

	"github.com/gesad-lab/baes-demo-sub001/schema"
)

// EntityType is the classification outcome for an entity schema.
type EntityType string

// Entity type constants.
const (
	// Standard entities are fully expressible with templates.
	Standard EntityType = "STANDARD"
	// Custom entities require generative generation.
	Custom EntityType = "CUSTOM"
)

// Result is the outcome of classifying a schema.
type Result struct {
	EntityType          EntityType `json:"entity_type"`
	RequiresCustomLogic bool       `json:"requires_custom_logic"`
	Reasons             []string   `json:"reasons,omitempty"`
	TemplateEligible    bool       `json:"template_eligible"`
}

// basicTypes is the allow-list of attribute types templates can render.
var basicTypes = map[string]struct{}{
	"str":      {},
	"int":      {},
	"float":    {},
	"bool":     {},
	"datetime": {},
	"date":     {},
	"decimal":  {},
}

// Business-rule token groups. Matching is case-insensitive substring
// scanning; a hit in any group marks the entity CUSTOM.
var (
	computedTokens = []string{
		"computed", "calculate", "calculated", "derived",
		"average", "aggregate", "sum of",
	}
	comparisonTokens = []string{
		"greater than", "less than", "at least", "at most",
		"between", "before", "after", "must match",
		"cannot exceed", "minus", "difference",
	}
	workflowTokens = []string{"state transition", "workflow", "approval"}
)

// Classify reports whether the schema is STANDARD (template eligible)
// or CUSTOM (generative fallback). Each failed check appends a reason.
func Classify(s *schema.Schema) Result {
	r := Result{EntityType: Standard, TemplateEligible: true}

	for _, a := range s.Attributes {
		if _, ok := basicTypes[strings.ToLower(a.Type)]; !ok {
			r.fail(fmt.Sprintf("attribute %q has non-basic type %q", a.Name, a.Type))
		}
	}

	for _, rule := range s.BusinessRules {
		lowered := strings.ToLower(rule)
		if token := firstToken(lowered, computedTokens); token != "" {
			r.fail(fmt.Sprintf("business rule %q implies a computed property (%s)", rule, token))
		}
		if token := firstToken(lowered, comparisonTokens); token != "" && namedAttributes(lowered, s) >= 2 {
			r.fail(fmt.Sprintf("business rule %q compares multiple fields (%s)", rule, token))
		}
		if token := firstToken(lowered, workflowTokens); token != "" {
			r.fail(fmt.Sprintf("business rule %q describes workflow state (%s)", rule, token))
		}
	}

	for _, name := range s.RelationshipNames() {
		rel := s.Relationships[name]
		if rel.Rel == schema.M2M || rel.Rel == schema.Polymorphic {
			r.fail(fmt.Sprintf("relationship %q has %s cardinality", name, rel.Rel))
		}
	}

	return r
}

// fail marks the result CUSTOM and records why.
func (r *Result) fail(reason string) {
	r.EntityType = Custom
	r.RequiresCustomLogic = true
	r.TemplateEligible = false
	r.Reasons = append(r.Reasons, reason)
}

// firstToken returns the first token contained in s, or "".
func firstToken(s string, tokens []string) string {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return token
		}
	}
	return ""
}

// namedAttributes counts distinct schema attributes mentioned in the
// rule text. Names shorter than three characters are skipped: they
// collide with ordinary words too often to signal a field reference.
func namedAttributes(lowered string, s *schema.Schema) int {
	count := 0
	for _, a := range s.Attributes {
		name := strings.ToLower(a.Name)
		if len(name) < 3 {
			continue
		}
		if strings.Contains(lowered, name) || strings.Contains(lowered, strings.ReplaceAll(name, "_", " ")) {
			count++
		}
	}
	return count
}
