package templates

import (
	"embed"
	"fmt"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

//go:embed templates/*.tmpl
var resources embed.FS

// Metadata describes a registered template.
type Metadata struct {
	// ID identifies the template within its catalog.
	ID string
	// Target is the artifact kind the template renders.
	Target baes.Target
	// Source is the template text. An empty source marks a template
	// whose backing resource is missing.
	Source string
	// RequiredContext lists context keys that must be present and
	// non-nil before rendering.
	RequiredContext []string
	// Defaults are merged into the render context for keys the caller
	// did not provide.
	Defaults map[string]any
	// SavingsRatio is the expected token compression against full
	// generative output, in [0,1].
	SavingsRatio float64
}

// Catalog maps artifact targets to registered templates. It is built
// once at startup and read-only afterwards, so lookups are safe for
// concurrent use.
type Catalog struct {
	byTarget map[baes.Target][]*Metadata
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byTarget: make(map[baes.Target][]*Metadata)}
}

// Register adds a template to the catalog. Registration order is
// selection order within a target.
func (c *Catalog) Register(m *Metadata) {
	c.byTarget[m.Target] = append(c.byTarget[m.Target], m)
}

// First returns the first template registered for target, or nil.
func (c *Catalog) First(target baes.Target) *Metadata {
	if ms := c.byTarget[target]; len(ms) > 0 {
		return ms[0]
	}
	return nil
}

// Len returns the number of registered templates.
func (c *Catalog) Len() int {
	n := 0
	for _, ms := range c.byTarget {
		n += len(ms)
	}
	return n
}

// defaultRatios are the per-target savings ratios of the built-in
// templates.
var defaultRatios = map[baes.Target]float64{
	baes.TargetStorage: 0.85,
	baes.TargetAPI:     0.75,
	baes.TargetUI:      0.70,
	baes.TargetTest:    0.80,
}

// DefaultCatalog builds the catalog of built-in artifact templates. It
// fails only if an embedded resource is unreadable.
func DefaultCatalog() (*Catalog, error) {
	c := NewCatalog()
	for _, target := range baes.Targets() {
		name := fmt.Sprintf("templates/%s.tmpl", target)
		src, err := resources.ReadFile(name)
		if err != nil {
			return nil, baes.NewMissingResourceError("template", name)
		}
		c.Register(&Metadata{
			ID:              fmt.Sprintf("%s_default", target),
			Target:          target,
			Source:          string(src),
			RequiredContext: []string{"Name", "Attributes"},
			SavingsRatio:    defaultRatios[target],
		})
	}
	return c, nil
}
