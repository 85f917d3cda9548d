package validate

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

//go:embed rules.yaml
var defaultRules []byte

// PatternType states how a rule pattern is interpreted.
type PatternType string

const (
	// MustHave rules pass when the pattern matches anywhere.
	MustHave PatternType = "must_have"
	// MustNotHave rules pass when the pattern matches nowhere.
	MustNotHave PatternType = "must_not_have"
)

// Rule is one pattern check against a generated artifact.
type Rule struct {
	ID         string      `yaml:"id"`
	Target     baes.Target `yaml:"target"`
	Pattern    string      `yaml:"pattern"`
	Type       PatternType `yaml:"type"`
	Confidence float64     `yaml:"confidence"`
	Message    string      `yaml:"message"`
	Suggestion string      `yaml:"suggestion"`
	Disabled   bool        `yaml:"disabled,omitempty"`

	re *regexp.Regexp
}

// Catalog holds the compiled pattern rules per artifact target. Build
// it once at startup and share it; lookups are read-only.
type Catalog struct {
	byTarget map[baes.Target][]*Rule
}

// NewCatalog compiles rules into a catalog. Invalid entries are
// reported as CatalogError.
func NewCatalog(rules []*Rule) (*Catalog, error) {
	c := &Catalog{byTarget: make(map[baes.Target][]*Rule)}
	for _, r := range rules {
		if r.ID == "" {
			return nil, baes.NewCatalogError("rules", "", "rule is missing an id", nil)
		}
		if !r.Target.Valid() {
			return nil, baes.NewCatalogError("rules", r.ID, fmt.Sprintf("unknown target %q", r.Target), nil)
		}
		if r.Type != MustHave && r.Type != MustNotHave {
			return nil, baes.NewCatalogError("rules", r.ID, fmt.Sprintf("unknown pattern type %q", r.Type), nil)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			return nil, baes.NewCatalogError("rules", r.ID, fmt.Sprintf("confidence %v outside [0,1]", r.Confidence), nil)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, baes.NewCatalogError("rules", r.ID, "invalid pattern", err)
		}
		r.re = re
		c.byTarget[r.Target] = append(c.byTarget[r.Target], r)
	}
	return c, nil
}

// DefaultCatalog loads the built-in rule set.
func DefaultCatalog() (*Catalog, error) {
	var doc struct {
		Rules []*Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(defaultRules, &doc); err != nil {
		return nil, baes.NewCatalogError("rules", "", "malformed rule document", err)
	}
	return NewCatalog(doc.Rules)
}

// ForTarget returns the rules registered for target, in catalog order.
func (c *Catalog) ForTarget(target baes.Target) []*Rule {
	return c.byTarget[target]
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int {
	n := 0
	for _, rs := range c.byTarget {
		n += len(rs)
	}
	return n
}
