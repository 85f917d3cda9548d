// Package syntax provides a small, language-agnostic structured
// representation of generated artifact source: declarations with their
// decorators, parameters and doc strings, plus import statements.
//
// It is deliberately not a full parser. It models exactly what the
// structural validator and the code patcher need, so both stay
// independent of any concrete target language grammar.
package syntax

import (
	"fmt"
	"strings"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

// Position tracks a source location for error reporting. Line and
// Column are 1-based.
type Position struct {
	Line   int
	Column int
}

// SyntaxError reports source that cannot be parsed into the structured
// representation.
type SyntaxError struct {
	Pos Position
	Msg string
}

// Error returns the error string with the offending position.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("baes: syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Is reports whether the target matches the syntax sentinel.
// This allows errors.Is(err, baes.ErrSyntaxInvalid) to return true.
func (e *SyntaxError) Is(err error) bool {
	return err == baes.ErrSyntaxInvalid
}

// newError creates a SyntaxError at the given 1-based position.
func newError(line, column int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pos: Position{Line: line, Column: column},
		Msg: fmt.Sprintf(format, args...),
	}
}

// DeclKind discriminates declaration categories.
type DeclKind int

// Declaration kinds.
const (
	// DeclFunc is a callable declaration.
	DeclFunc DeclKind = iota
	// DeclType is a type (class-like) declaration.
	DeclType
)

// String returns the human-readable kind name.
func (k DeclKind) String() string {
	if k == DeclType {
		return "type"
	}
	return "function"
}

// Param is a single declared parameter with an optional type annotation.
type Param struct {
	Name string
	Type string
}

// Decorator is an annotation attached to a declaration.
type Decorator struct {
	// Name is the dotted decorator path without the marker or arguments.
	Name string
	// Raw is the full decorator line, trimmed.
	Raw string
	// Line is the 1-based source line.
	Line int
}

// Decl is a single function or type declaration.
type Decl struct {
	Kind       DeclKind
	Name       string
	Line       int    // 1-based line of the declaration header.
	Indent     string // Leading whitespace of the header line.
	Decorators []Decorator
	Params     []Param // Function declarations only.
	ReturnType string  // Function declarations only.
	Doc        string  // Leading doc string of the body, if any.
	BodyStart  int     // 1-based first body line, 0 if the body is empty.
	BodyEnd    int     // 1-based last body line, 0 if the body is empty.
}

// Decorator returns the decorator with the given name, or nil.
func (d *Decl) Decorator(name string) *Decorator {
	for i := range d.Decorators {
		if d.Decorators[i].Name == name {
			return &d.Decorators[i]
		}
	}
	return nil
}

// Import is a single import statement.
type Import struct {
	// Statement is the trimmed import line.
	Statement string
	// Line is the 1-based source line.
	Line int
}

// File is the structured representation of one artifact source buffer.
type File struct {
	Lines   []string
	Imports []*Import
	Decls   []*Decl
}

// Decl returns the first declaration with the given name, or nil.
func (f *File) Decl(name string) *Decl {
	for _, d := range f.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// HasImport reports whether an import statement with the same trimmed
// text already exists.
func (f *File) HasImport(statement string) bool {
	want := strings.TrimSpace(statement)
	for _, im := range f.Imports {
		if im.Statement == want {
			return true
		}
	}
	return false
}

// Source reconstructs the source buffer from its lines.
func (f *File) Source() string {
	return strings.Join(f.Lines, "\n")
}
