package templates

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/gesad-lab/baes-demo-sub001/classify"
	"github.com/gesad-lab/baes-demo-sub001/schema"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

// full generative output for one artifact, in tokens.
const generativeTokenCost = 1500

// Input carries everything a render needs.
type Input struct {
	// Target is the artifact kind to render.
	Target baes.Target
	// Schema is the entity to render the artifact for.
	Schema *schema.Schema
	// Classification gates template eligibility. When nil the schema
	// is classified on the fly.
	Classification *classify.Result
	// CustomLogic lists caller-supplied custom-logic overrides. A
	// non-empty list forces generative fallback.
	CustomLogic []string
	// Extra is merged into the render context on top of the schema
	// variables.
	Extra map[string]any
}

// Output is the result of a render attempt. Exactly one of
// TemplateUsed or FallbackReason is meaningful.
type Output struct {
	GeneratedCode  string  `json:"generated_code"`
	TemplateUsed   bool    `json:"template_used"`
	TemplateID     string  `json:"template_id,omitempty"`
	FallbackReason string  `json:"fallback_reason,omitempty"`
	TokenEstimate  int     `json:"token_estimate"`
	RenderTimeMS   float64 `json:"render_time_ms"`
}

// Engine selects and renders artifact templates against an explicit
// catalog. The zero engine is not usable; construct with NewEngine.
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

// Select resolves the template for a target under the given
// classification. It returns nil and a fallback reason when generation
// must go through the generative service instead.
func (e *Engine) Select(target baes.Target, c *classify.Result, customLogic []string) (*Metadata, string) {
	if c != nil && c.EntityType == classify.Custom {
		return nil, "entity type CUSTOM requires generative fallback"
	}
	if n := len(customLogic); n > 0 {
		return nil, fmt.Sprintf("%d custom logic rule(s) require generative fallback", n)
	}
	m := e.catalog.First(target)
	if m == nil {
		return nil, fmt.Sprintf("no template registered for target %q", target)
	}
	return m, ""
}

// Render renders the artifact for in. It never returns an error: every
// failure mode maps to a fallback Output with TemplateUsed=false.
func (e *Engine) Render(in Input) Output {
	start := time.Now()
	fallback := func(reason string) Output {
		e.log.Debug("template fallback",
			zap.String("target", string(in.Target)),
			zap.String("reason", reason),
		)
		return Output{
			FallbackReason: reason,
			RenderTimeMS:   float64(time.Since(start).Microseconds()) / 1000.0,
		}
	}

	c := in.Classification
	if c == nil && in.Schema != nil {
		v := classify.Classify(in.Schema)
		c = &v
	}
	m, reason := e.Select(in.Target, c, in.CustomLogic)
	if m == nil {
		return fallback(reason)
	}
	if m.Source == "" {
		return fallback(fmt.Sprintf("template resource %q is missing", m.ID))
	}

	ctx := buildContext(in.Schema, in.Extra, m.Defaults)
	if missing := missingKeys(ctx, m.RequiredContext); len(missing) > 0 {
		return fallback(fmt.Sprintf("missing required context: %s", strings.Join(missing, ", ")))
	}

	tmpl, err := template.New(m.ID).Funcs(Funcs()).Option("missingkey=error").Parse(m.Source)
	if err != nil {
		return fallback(fmt.Sprintf("template syntax invalid: %v", err))
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, ctx); err != nil {
		if strings.Contains(err.Error(), "no entry for key") {
			return fallback(fmt.Sprintf("template references undefined context key: %v", err))
		}
		return fallback(fmt.Sprintf("template rendering failed: %v", err))
	}

	out := Output{
		GeneratedCode: buf.String(),
		TemplateUsed:  true,
		TemplateID:    m.ID,
		TokenEstimate: int(math.Round(generativeTokenCost * m.SavingsRatio)),
		RenderTimeMS:  float64(time.Since(start).Microseconds()) / 1000.0,
	}
	e.log.Debug("template rendered",
		zap.String("target", string(in.Target)),
		zap.String("template", m.ID),
		zap.Int("token_estimate", out.TokenEstimate),
	)
	return out
}

// buildContext merges the schema variables, caller extras, and
// template defaults. Caller extras win over defaults but never over
// schema variables.
func buildContext(s *schema.Schema, extra, defaults map[string]any) map[string]any {
	ctx := make(map[string]any, len(extra)+len(defaults)+4)
	for k, v := range defaults {
		ctx[k] = v
	}
	for k, v := range extra {
		ctx[k] = v
	}
	if s != nil {
		ctx["Schema"] = s
		ctx["Name"] = s.Name
		ctx["Attributes"] = s.Attributes
		ctx["Relationships"] = s.Relationships
	}
	return ctx
}

// missingKeys returns the required keys absent or nil in ctx, sorted.
func missingKeys(ctx map[string]any, required []string) []string {
	var missing []string
	for _, k := range required {
		if v, ok := ctx[k]; !ok || v == nil {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}
