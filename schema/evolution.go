package schema

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

// Evolution applies create/add/remove/modify diffs over a Schema.
//
// Operations never mutate their input: each returns a fresh Schema with
// the change applied. After every operation the identity attribute is
// relocated to index 0 if present, or synthesized if absent.
type Evolution struct {
	log *zap.Logger
}

// NewEvolution creates an Evolution with the given logger.
// A nil logger disables logging.
func NewEvolution(log *zap.Logger) *Evolution {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evolution{log: log}
}

// Create builds a new schema from the given attributes.
func (e *Evolution) Create(name string, attrs []*Attribute) *Schema {
	s := &Schema{Name: name}
	for _, a := range attrs {
		if s.HasAttribute(a.Name) {
			continue
		}
		s.Attributes = append(s.Attributes, a.Clone())
	}
	e.ensureIdentity(s)
	return s
}

// Evolve appends the given attributes to the schema, skipping any whose
// name collides with an existing attribute.
func (e *Evolution) Evolve(s *Schema, attrs []*Attribute) *Schema {
	next := s.Clone()
	for _, a := range attrs {
		if next.HasAttribute(a.Name) {
			e.log.Debug("skipping duplicate attribute",
				zap.String("entity", s.Name),
				zap.String("attribute", a.Name))
			continue
		}
		next.Attributes = append(next.Attributes, a.Clone())
	}
	e.ensureIdentity(next)
	return next
}

// Remove drops the named attributes from the schema. Removal of the
// identity attribute is rejected: the schema retains it and a warning
// is logged.
func (e *Evolution) Remove(s *Schema, names []string) *Schema {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == IdentityName {
			e.log.Warn("identity attribute cannot be removed",
				zap.String("entity", s.Name))
			continue
		}
		drop[name] = struct{}{}
	}
	next := s.Clone()
	kept := next.Attributes[:0]
	for _, a := range next.Attributes {
		if _, ok := drop[a.Name]; ok {
			continue
		}
		kept = append(kept, a)
	}
	next.Attributes = kept
	e.ensureIdentity(next)
	return next
}

// Change describes a rename and/or retype of a single attribute.
// An empty field leaves the corresponding property unchanged.
type Change struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Modify applies renames and retypes keyed by current attribute name.
// Any change touching the identity attribute is rejected with a warning.
func (e *Evolution) Modify(s *Schema, changes map[string]Change) *Schema {
	next := s.Clone()
	for _, a := range next.Attributes {
		ch, ok := changes[a.Name]
		if !ok {
			continue
		}
		if a.Name == IdentityName || ch.Name == IdentityName {
			e.log.Warn("identity attribute cannot be modified",
				zap.String("entity", s.Name),
				zap.String("attribute", a.Name))
			continue
		}
		if ch.Name != "" && !next.HasAttribute(ch.Name) {
			a.Name = ch.Name
		}
		if ch.Type != "" {
			a.Type = ch.Type
		}
	}
	e.ensureIdentity(next)
	return next
}

// AddRelationship registers a singular relationship to the target
// entity and appends its foreign-key attribute "<target>_id" of type
// int. The operation is idempotent: an already-present foreign key is
// left untouched.
func (e *Evolution) AddRelationship(s *Schema, name, target string) *Schema {
	next := s.Clone()
	if next.Relationships == nil {
		next.Relationships = make(map[string]*Relationship)
	}
	next.Relationships[name] = &Relationship{Rel: M2O, Target: target}
	fk := strings.ToLower(target) + "_id"
	if !next.HasAttribute(fk) {
		next.Attributes = append(next.Attributes, &Attribute{
			Name:          fk,
			Type:          IdentityType,
			ForeignKey:    true,
			RelatedEntity: target,
		})
	}
	e.ensureIdentity(next)
	return next
}

// ensureIdentity relocates the identity attribute to index 0, or
// synthesizes it when absent. Enforced after every operation, not just
// Create.
func (e *Evolution) ensureIdentity(s *Schema) {
	for i, a := range s.Attributes {
		if a.Name != IdentityName {
			continue
		}
		if i != 0 {
			copy(s.Attributes[1:i+1], s.Attributes[:i])
			s.Attributes[0] = a
		}
		return
	}
	id := &Attribute{Name: IdentityName, Type: IdentityType}
	s.Attributes = append([]*Attribute{id}, s.Attributes...)
}

// Weights of the reuse-percentage metric. Rule and vocabulary reuse are
// fixed domain estimates on the 0-100 scale.
const (
	attributeReuseWeight  = 0.60
	ruleReuseWeight       = 0.25
	vocabularyReuseWeight = 0.15
	ruleReuseScore        = 90.0
	vocabularyReuseScore  = 95.0
	reuseFloor            = 80.0
	emptyBaseReuse        = 85.0
)

// ReusePercent estimates how much of an existing entity definition
// survives a set of modifications, on a 0-100 scale. Context-adaptation
// collaborators use it to decide between incremental evolution and full
// regeneration.
func ReusePercent(base []*Attribute, modifications int) float64 {
	if modifications == 0 {
		return 100.0
	}
	if len(base) == 0 {
		return emptyBaseReuse
	}
	attributeReuse := math.Max(0, float64(len(base)-modifications)/float64(len(base))*100)
	total := attributeReuseWeight*attributeReuse +
		ruleReuseWeight*ruleReuseScore +
		vocabularyReuseWeight*vocabularyReuseScore
	return math.Max(reuseFloor, total)
}
