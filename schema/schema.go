// Package schema provides the canonical in-memory representation of an
// entity schema and the evolution operations that mutate it.
//
// A Schema is produced by the upstream natural-language interpreter and
// handed to the classifier and template engine as their sole structural
// input. Every schema holds exactly one identity attribute: an "id"
// attribute of type "int" that is always first and can never be removed
// or renamed. Evolution operations enforce that invariant as an
// unconditional post-condition.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Rel is the relationship cardinality between two entities.
type Rel int

// Relationship cardinalities.
const (
	// O2O is a one-to-one relationship.
	O2O Rel = iota
	// O2M is a one-to-many relationship.
	O2M
	// M2O is a many-to-one relationship (the foreign-key side).
	M2O
	// M2M is a many-to-many relationship.
	M2M
	// Polymorphic is a relationship whose target varies per row.
	Polymorphic
)

var relNames = [...]string{"one-to-one", "one-to-many", "many-to-one", "many-to-many", "polymorphic"}

// String returns the wire form of the cardinality.
func (r Rel) String() string {
	if r < O2O || r > Polymorphic {
		return "unknown"
	}
	return relNames[r]
}

// Singular reports whether the cardinality resolves to at most one
// target row from the owning side. Singular relationships are
// representable with a plain foreign-key attribute.
func (r Rel) Singular() bool {
	return r == O2O || r == M2O
}

// MarshalText implements encoding.TextMarshaler.
func (r Rel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rel) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range relNames {
		if name == s {
			*r = Rel(i)
			return nil
		}
	}
	return fmt.Errorf("schema: unknown cardinality %q", s)
}

// Attribute is a single typed attribute of an entity schema.
type Attribute struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	ForeignKey    bool   `json:"foreign_key,omitempty"`
	RelatedEntity string `json:"related_entity,omitempty"`
}

// Clone returns a copy of the attribute.
func (a *Attribute) Clone() *Attribute {
	c := *a
	return &c
}

// Relationship describes a named relationship to another entity.
type Relationship struct {
	Rel    Rel    `json:"cardinality"`
	Target string `json:"target"`
}

// Schema is the canonical in-memory representation of an entity schema.
type Schema struct {
	Name          string                   `json:"name"`
	Attributes    []*Attribute             `json:"attributes"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	BusinessRules []string                 `json:"business_rules,omitempty"`
}

// IdentityName and IdentityType define the mandatory identity attribute
// every schema retains: first, immutable.
const (
	IdentityName = "id"
	IdentityType = "int"
)

// Attribute returns the attribute with the given name, or nil.
func (s *Schema) Attribute(name string) *Attribute {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// HasAttribute reports whether an attribute with the given name exists.
func (s *Schema) HasAttribute(name string) bool {
	return s.Attribute(name) != nil
}

// RelationshipNames returns the relationship names in sorted order.
// Iteration over a sorted snapshot keeps consumers deterministic.
func (s *Schema) RelationshipNames() []string {
	names := make([]string, 0, len(s.Relationships))
	for name := range s.Relationships {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the schema. Evolution operations clone
// before mutating so callers keep their original value.
func (s *Schema) Clone() *Schema {
	c := &Schema{
		Name:       s.Name,
		Attributes: make([]*Attribute, 0, len(s.Attributes)),
	}
	for _, a := range s.Attributes {
		c.Attributes = append(c.Attributes, a.Clone())
	}
	if s.Relationships != nil {
		c.Relationships = make(map[string]*Relationship, len(s.Relationships))
		for name, rel := range s.Relationships {
			r := *rel
			c.Relationships[name] = &r
		}
	}
	if s.BusinessRules != nil {
		c.BusinessRules = append([]string(nil), s.BusinessRules...)
	}
	return c
}

// Validate checks the schema invariants: a non-empty name, attributes
// unique by name, and exactly one identity attribute placed first.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema: missing entity name")
	}
	seen := make(map[string]struct{}, len(s.Attributes))
	for _, a := range s.Attributes {
		if a.Name == "" {
			return fmt.Errorf("schema: entity %q has an unnamed attribute", s.Name)
		}
		if _, ok := seen[a.Name]; ok {
			return fmt.Errorf("schema: entity %q has duplicate attribute %q", s.Name, a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	if len(s.Attributes) == 0 || s.Attributes[0].Name != IdentityName {
		return fmt.Errorf("schema: entity %q does not lead with the identity attribute", s.Name)
	}
	if !strings.EqualFold(s.Attributes[0].Type, IdentityType) {
		return fmt.Errorf("schema: entity %q identity attribute must be %s, got %q", s.Name, IdentityType, s.Attributes[0].Type)
	}
	return nil
}
