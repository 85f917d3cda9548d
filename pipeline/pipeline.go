// Package pipeline wires classification, rendering, validation, and
// patching into one facade over shared read-only catalogs. Every method
// is pure with respect to the pipeline itself, so one pipeline value
// can serve concurrent callers.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gesad-lab/baes-demo-sub001/classify"
	"github.com/gesad-lab/baes-demo-sub001/patch"
	"github.com/gesad-lab/baes-demo-sub001/schema"
	"github.com/gesad-lab/baes-demo-sub001/templates"
	"github.com/gesad-lab/baes-demo-sub001/validate"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

// Pipeline bundles the generation stages behind one entry point.
type Pipeline struct {
	templates *templates.Engine
	validator *validate.Engine
	patcher   *patch.Patcher
	evolution *schema.Evolution
	log       *zap.Logger
}

// New assembles a pipeline over explicit catalogs.
func New(tc *templates.Catalog, vc *validate.Catalog, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		templates: templates.NewEngine(tc, log),
		validator: validate.NewEngine(vc, log),
		patcher:   patch.New(log),
		evolution: schema.NewEvolution(log),
		log:       log,
	}
}

// Default assembles a pipeline over the built-in template and rule
// catalogs.
func Default(log *zap.Logger) (*Pipeline, error) {
	tc, err := templates.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	vc, err := validate.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return New(tc, vc, log), nil
}

// Classify decides template eligibility for a schema.
func (p *Pipeline) Classify(s *schema.Schema) classify.Result {
	return classify.Classify(s)
}

// Render renders one artifact for a schema, falling back with a typed
// reason instead of failing.
func (p *Pipeline) Render(target baes.Target, s *schema.Schema, extra map[string]any) templates.Output {
	return p.templates.Render(templates.Input{Target: target, Schema: s, Extra: extra})
}

// RenderAll renders every artifact target for a schema in parallel.
// Individual fallbacks are part of the result, not errors; the only
// error source is context cancellation.
func (p *Pipeline) RenderAll(ctx context.Context, s *schema.Schema, extra map[string]any) (map[baes.Target]templates.Output, error) {
	runID := uuid.New().String()
	c := p.Classify(s)
	targets := baes.Targets()
	results := make([]templates.Output, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(targets))
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.templates.Render(templates.Input{
				Target:         target,
				Schema:         s,
				Classification: &c,
				Extra:          extra,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[baes.Target]templates.Output, len(targets))
	rendered := 0
	for i, target := range targets {
		out[target] = results[i]
		if results[i].TemplateUsed {
			rendered++
		}
	}
	p.log.Info("artifacts rendered",
		zap.String("run_id", runID),
		zap.String("entity", s.Name),
		zap.Int("templated", rendered),
		zap.Int("fallbacks", len(targets)-rendered),
	)
	return out, nil
}

// ValidatePattern runs the pattern pass for target.
func (p *Pipeline) ValidatePattern(code string, target baes.Target) validate.Result {
	return p.validator.ValidatePattern(code, target)
}

// ValidateStructure runs the structural pass.
func (p *Pipeline) ValidateStructure(code string) validate.Result {
	return p.validator.ValidateStructure(code)
}

// Patch applies one named patch operation to an artifact buffer.
func (p *Pipeline) Patch(code string, t patch.Type, params patch.Params) patch.Result {
	return p.patcher.Apply(code, t, params)
}

// Evolution exposes the schema evolution operations directly.
func (p *Pipeline) Evolution() *schema.Evolution {
	return p.evolution
}

// EvolveOp names a schema evolution operation for dispatch.
type EvolveOp string

const (
	EvolveAdd             EvolveOp = "add_attributes"
	EvolveRemove          EvolveOp = "remove_attributes"
	EvolveModify          EvolveOp = "modify_attributes"
	EvolveAddRelationship EvolveOp = "add_relationship"
)

// EvolvePayload carries the arguments of an evolution operation. Only
// the fields for the dispatched operation are read.
type EvolvePayload struct {
	Attributes   []*schema.Attribute      `json:"attributes,omitempty"`
	Names        []string                 `json:"names,omitempty"`
	Changes      map[string]schema.Change `json:"changes,omitempty"`
	Relationship string                   `json:"relationship,omitempty"`
	Target       string                   `json:"target,omitempty"`
}

// Evolve dispatches one evolution operation against a schema and
// returns the evolved copy.
func (p *Pipeline) Evolve(s *schema.Schema, op EvolveOp, payload EvolvePayload) (*schema.Schema, error) {
	switch op {
	case EvolveAdd:
		return p.evolution.Evolve(s, payload.Attributes), nil
	case EvolveRemove:
		return p.evolution.Remove(s, payload.Names), nil
	case EvolveModify:
		return p.evolution.Modify(s, payload.Changes), nil
	case EvolveAddRelationship:
		return p.evolution.AddRelationship(s, payload.Relationship, payload.Target), nil
	default:
		return nil, fmt.Errorf("baes: unknown evolution operation %q", op)
	}
}
