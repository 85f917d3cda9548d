// Package patch applies narrow, named repairs to generated artifacts.
// Every operation re-parses its output and returns the unmodified
// original when the repair would break the syntax.
package patch

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/gesad-lab/baes-demo-sub001/syntax"
)

// Cost accounting constants, in abstract cost units. The orchestrator
// compares them against full regeneration when deciding how to repair
// an artifact.
const (
	FullRegenCost = 2000
	PatchCost     = 500
)

// Type names a patch operation.
type Type string

const (
	AddDecorator  Type = "add_decorator"
	FixStatusCode Type = "fix_status_code"
	AddImport     Type = "add_import"
)

// Params carries the operation arguments. Target names the declaration
// to patch; Value is the decorator name, status code, or import
// statement depending on the operation.
type Params struct {
	Target string `json:"target,omitempty"`
	Value  string `json:"value"`
}

// Result reports one patch attempt. On failure PatchedCode is empty
// and the caller keeps its original buffer.
type Result struct {
	Success          bool   `json:"success"`
	PatchedCode      string `json:"patched_code,omitempty"`
	PatchType        Type   `json:"patch_type"`
	Location         int    `json:"location,omitempty"`
	ValidationPassed bool   `json:"validation_passed"`
	EstimatedSavings int    `json:"estimated_savings,omitempty"`
	Err              string `json:"error,omitempty"`
}

// Patcher applies patch operations. The zero value is usable; New
// attaches a logger.
type Patcher struct {
	log *zap.Logger
}

// New returns a patcher logging through log.
func New(log *zap.Logger) *Patcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Patcher{log: log}
}

// Apply dispatches on the patch type.
func (p *Patcher) Apply(code string, t Type, params Params) Result {
	switch t {
	case AddDecorator:
		return p.AddDecorator(code, params.Target, params.Value)
	case FixStatusCode:
		return p.FixStatusCode(code, params.Target, params.Value)
	case AddImport:
		return p.AddImport(code, params.Value)
	default:
		return Result{PatchType: t, Err: fmt.Sprintf("unknown patch type %q", t)}
	}
}

// AddDecorator inserts a decorator line immediately above the named
// declaration, preserving its indentation. Adding a decorator that is
// already present is a successful no-op.
func (p *Patcher) AddDecorator(code, target, decorator string) Result {
	res := Result{PatchType: AddDecorator}
	f, err := syntax.Parse(code)
	if err != nil {
		res.Err = fmt.Sprintf("code does not parse: %v", err)
		return res
	}
	d := f.Decl(target)
	if d == nil {
		res.Err = fmt.Sprintf("no declaration named %q", target)
		return res
	}
	name := strings.TrimPrefix(strings.TrimSpace(decorator), "@")
	if d.Decorator(nameOnly(name)) != nil {
		return p.succeed(res, code, d.Line)
	}

	line := d.Indent + "@" + name
	insertAt := d.Line - 1
	if len(d.Decorators) > 0 {
		insertAt = d.Decorators[0].Line - 1
	}
	lines := append([]string{}, f.Lines[:insertAt]...)
	lines = append(lines, line)
	lines = append(lines, f.Lines[insertAt:]...)
	return p.verify(res, code, strings.Join(lines, "\n"), insertAt+1)
}

// statusCodeRE matches a three-digit HTTP status literal.
var statusCodeRE = regexp.MustCompile(`\b[1-5][0-9]{2}\b`)

// FixStatusCode replaces the first status-code literal associated with
// the named endpoint, looking through its decorators first and its
// body second. It fails when the endpoint carries no status literal.
func (p *Patcher) FixStatusCode(code, target, correct string) Result {
	res := Result{PatchType: FixStatusCode}
	f, err := syntax.Parse(code)
	if err != nil {
		res.Err = fmt.Sprintf("code does not parse: %v", err)
		return res
	}
	d := f.Decl(target)
	if d == nil {
		res.Err = fmt.Sprintf("no declaration named %q", target)
		return res
	}

	var candidates []int
	for _, dec := range d.Decorators {
		candidates = append(candidates, dec.Line)
	}
	if d.BodyStart > 0 {
		for n := d.BodyStart; n <= d.BodyEnd; n++ {
			candidates = append(candidates, n)
		}
	}
	for _, n := range candidates {
		text := f.Lines[n-1]
		loc := statusCodeRE.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if text[loc[0]:loc[1]] == correct {
			return p.succeed(res, code, n)
		}
		lines := append([]string{}, f.Lines...)
		lines[n-1] = text[:loc[0]] + correct + text[loc[1]:]
		return p.verify(res, code, strings.Join(lines, "\n"), n)
	}
	res.Err = fmt.Sprintf("no status-code literal found for %q", target)
	return res
}

// AddImport inserts an import statement after the last existing
// import, or at the top when none exist. An already-present statement
// is a successful no-op.
func (p *Patcher) AddImport(code, statement string) Result {
	res := Result{PatchType: AddImport}
	f, err := syntax.Parse(code)
	if err != nil {
		res.Err = fmt.Sprintf("code does not parse: %v", err)
		return res
	}
	statement = strings.TrimSpace(statement)
	if f.HasImport(statement) {
		return p.succeed(res, code, 0)
	}

	insertAt := 0
	if n := len(f.Imports); n > 0 {
		insertAt = f.Imports[n-1].Line
	}
	lines := append([]string{}, f.Lines[:insertAt]...)
	lines = append(lines, statement)
	lines = append(lines, f.Lines[insertAt:]...)
	return p.verify(res, code, strings.Join(lines, "\n"), insertAt+1)
}

// succeed finalizes a no-op success: the original buffer is already in
// the desired state.
func (p *Patcher) succeed(res Result, code string, line int) Result {
	res.Success = true
	res.PatchedCode = code
	res.Location = line
	res.ValidationPassed = true
	res.EstimatedSavings = FullRegenCost - PatchCost
	return res
}

// verify re-parses the patched buffer and rolls the patch back when it
// no longer parses.
func (p *Patcher) verify(res Result, original, patched string, line int) Result {
	if _, err := syntax.Parse(patched); err != nil {
		p.log.Warn("patch rolled back",
			zap.String("type", string(res.PatchType)),
			zap.Error(err),
		)
		res.Err = fmt.Sprintf("patch result does not parse, rolled back: %v", err)
		return res
	}
	res.Success = true
	res.PatchedCode = patched
	res.Location = line
	res.ValidationPassed = true
	res.EstimatedSavings = FullRegenCost - PatchCost
	p.log.Debug("patch applied",
		zap.String("type", string(res.PatchType)),
		zap.Int("line", line),
	)
	return res
}

// nameOnly strips any call arguments from a decorator spelling.
func nameOnly(decorator string) string {
	if idx := strings.IndexByte(decorator, '('); idx >= 0 {
		return decorator[:idx]
	}
	return decorator
}
