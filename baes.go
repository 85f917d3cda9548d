// Package baes holds the shared contracts of the entity-to-artifact
// generation pipeline.
//
// The pipeline turns a declarative entity schema into generated source
// artifacts. It decides deterministically whether an entity is simple
// enough for template-based generation or requires a generative
// fallback, validates produced code with a confidence-scored rule
// engine, and applies narrow, syntax-safe patches to fix known defects
// without full regeneration.
//
// # Architecture
//
// The subpackages form a dependency chain, leaves first:
//
//	schema    - canonical in-memory entity schema + evolution operations
//	classify  - STANDARD vs CUSTOM template-eligibility decision
//	templates - template catalog, selection and rendering with fallback
//	syntax    - generic structured-syntax representation of artifacts
//	validate  - pattern-based and structural validation passes
//	patch     - named syntax-safe patch operations
//	pipeline  - facade wiring the above behind a single surface
//
// This root package defines what every layer shares: the artifact
// Target kinds, the GenerativeService capability contract, and the
// error taxonomy. Nothing in the pipeline ever calls the generative
// service itself; callers invoke it when a result signals fallback or
// generative review.
package baes

import "fmt"

// Target identifies one of the generated artifact kinds.
type Target string

// The four artifact kinds the pipeline can generate and validate.
const (
	// TargetStorage is the storage schema artifact (model/table definition).
	TargetStorage Target = "storage_layer"
	// TargetAPI is the API layer artifact (routed endpoint handlers).
	TargetAPI Target = "api_layer"
	// TargetUI is the UI layer artifact (form and listing markup).
	TargetUI Target = "ui_layer"
	// TargetTest is the test layer artifact (endpoint test functions).
	TargetTest Target = "test_layer"
)

// Targets returns all artifact kinds in generation order.
func Targets() []Target {
	return []Target{TargetStorage, TargetAPI, TargetUI, TargetTest}
}

// Valid reports whether t is one of the known artifact kinds.
func (t Target) Valid() bool {
	switch t {
	case TargetStorage, TargetAPI, TargetUI, TargetTest:
		return true
	}
	return false
}

// String returns the wire form of the target kind.
func (t Target) String() string { return string(t) }

// ParseTarget converts a string into a Target, or fails for unknown kinds.
func ParseTarget(s string) (Target, error) {
	t := Target(s)
	if !t.Valid() {
		return "", fmt.Errorf("baes: unknown target kind %q", s)
	}
	return t, nil
}
