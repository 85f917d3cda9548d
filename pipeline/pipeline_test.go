package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gesad-lab/baes-demo-sub001/classify"
	"github.com/gesad-lab/baes-demo-sub001/patch"
	"github.com/gesad-lab/baes-demo-sub001/schema"
	"github.com/gesad-lab/baes-demo-sub001/validate"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

func student() *schema.Schema {
	return &schema.Schema{
		Name: "Student",
		Attributes: []*schema.Attribute{
			{Name: "id", Type: "int"},
			{Name: "name", Type: "str"},
			{Name: "gpa", Type: "float"},
		},
	}
}

func course() *schema.Schema {
	return &schema.Schema{
		Name: "Course",
		Attributes: []*schema.Attribute{
			{Name: "id", Type: "int"},
			{Name: "name", Type: "str"},
			{Name: "capacity", Type: "int"},
			{Name: "enrolled_count", Type: "int"},
		},
		BusinessRules: []string{"Calculate available seats as capacity minus enrolled_count"},
	}
}

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := Default(nil)
	require.NoError(t, err)
	return p
}

func TestRenderStandardEntity(t *testing.T) {
	p := newPipeline(t)

	c := p.Classify(student())
	assert.Equal(t, classify.Standard, c.EntityType)
	require.True(t, c.TemplateEligible)

	out := p.Render(baes.TargetStorage, student(), nil)
	require.True(t, out.TemplateUsed, "fallback: %s", out.FallbackReason)
	assert.Contains(t, out.GeneratedCode, "__tablename__")
	assert.Contains(t, out.GeneratedCode, "gpa")
}

func TestRenderCustomEntityFallsBack(t *testing.T) {
	p := newPipeline(t)

	c := p.Classify(course())
	assert.Equal(t, classify.Custom, c.EntityType)
	assert.False(t, c.TemplateEligible)

	out := p.Render(baes.TargetAPI, course(), nil)
	assert.False(t, out.TemplateUsed)
	assert.Contains(t, out.FallbackReason, "CUSTOM")
}

func TestGenerativeEscalation(t *testing.T) {
	p := newPipeline(t)
	svc := &baes.MockGenerativeService{Response: "def generated(): ..."}

	out := p.Render(baes.TargetAPI, course(), nil)
	require.False(t, out.TemplateUsed)

	code, err := svc.Generate(context.Background(), out.FallbackReason)
	require.NoError(t, err)
	assert.Equal(t, "def generated(): ...", code)
	assert.Equal(t, 1, svc.GenerateCalls)
}

func TestRenderAll(t *testing.T) {
	p := newPipeline(t)

	out, err := p.RenderAll(context.Background(), student(), nil)
	require.NoError(t, err)
	require.Len(t, out, len(baes.Targets()))
	for _, target := range baes.Targets() {
		res := out[target]
		assert.True(t, res.TemplateUsed, "target %s: %s", target, res.FallbackReason)
		assert.NotEmpty(t, res.GeneratedCode)
	}
}

func TestRenderAllCancelled(t *testing.T) {
	p := newPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.RenderAll(ctx, student(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderValidateRoundTrip(t *testing.T) {
	p := newPipeline(t)

	for _, target := range []baes.Target{baes.TargetStorage, baes.TargetAPI, baes.TargetTest} {
		t.Run(string(target), func(t *testing.T) {
			out := p.Render(target, student(), nil)
			require.True(t, out.TemplateUsed, "fallback: %s", out.FallbackReason)

			res := p.ValidatePattern(out.GeneratedCode, target)
			assert.Equal(t, validate.Approval, res.Outcome, "feedback: %s", res.Feedback)
		})
	}
}

func TestValidateStructureOnRenderedAPI(t *testing.T) {
	p := newPipeline(t)

	out := p.Render(baes.TargetAPI, student(), nil)
	require.True(t, out.TemplateUsed, "fallback: %s", out.FallbackReason)

	res := p.ValidateStructure(out.GeneratedCode)
	assert.Equal(t, validate.Approval, res.Outcome, "feedback: %s", res.Feedback)
}

func TestPatchThroughPipeline(t *testing.T) {
	p := newPipeline(t)

	out := p.Render(baes.TargetAPI, student(), nil)
	require.True(t, out.TemplateUsed)

	res := p.Patch(out.GeneratedCode, patch.AddImport, patch.Params{Value: "import logging"})
	require.True(t, res.Success, res.Err)
	assert.Contains(t, res.PatchedCode, "import logging")
	assert.Equal(t, patch.FullRegenCost-patch.PatchCost, res.EstimatedSavings)

	t.Run("invalid buffer rolls back", func(t *testing.T) {
		res := p.Patch("import broken(\n", patch.AddImport, patch.Params{Value: "import os"})
		assert.False(t, res.Success)
		assert.Empty(t, res.PatchedCode)
	})
}

func TestEvolveDispatch(t *testing.T) {
	p := newPipeline(t)

	s, err := p.Evolve(student(), EvolveAdd, EvolvePayload{
		Attributes: []*schema.Attribute{{Name: "email", Type: "str"}},
	})
	require.NoError(t, err)
	assert.True(t, s.HasAttribute("email"))

	s, err = p.Evolve(s, EvolveModify, EvolvePayload{
		Changes: map[string]schema.Change{"email": {Name: "contact_email"}},
	})
	require.NoError(t, err)
	assert.True(t, s.HasAttribute("contact_email"))

	s, err = p.Evolve(s, EvolveRemove, EvolvePayload{Names: []string{"contact_email"}})
	require.NoError(t, err)
	assert.False(t, s.HasAttribute("contact_email"))

	s, err = p.Evolve(s, EvolveAddRelationship, EvolvePayload{
		Relationship: "school", Target: "School",
	})
	require.NoError(t, err)
	assert.True(t, s.HasAttribute("school_id"))

	_, err = p.Evolve(s, EvolveOp("transmute"), EvolvePayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown evolution operation")
}
