// Package schema defines the canonical field model shared by every parser,
// the enhancer, and the record generator.
package schema

import "fmt"

// Kind is the closed category of a field.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindInteger   Kind = "integer"
	KindBoolean   Kind = "boolean"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
	KindEnum      Kind = "enum"
	KindComposite Kind = "composite"
	KindReference Kind = "reference"
)

// knownKinds is the closed set accepted by Validate. Generation treats an
// unknown kind as a string, but a parser must never emit one.
var knownKinds = map[Kind]bool{
	KindString:    true,
	KindNumber:    true,
	KindInteger:   true,
	KindBoolean:   true,
	KindArray:     true,
	KindObject:    true,
	KindEnum:      true,
	KindComposite: true,
	KindReference: true,
}

// Schema is the canonical representation of one parsed schema definition.
// Fields is keyed by field name; ordering carries no meaning. Definitions
// holds one level of reusable named sub-schemas and is never recursively
// expanded.
type Schema struct {
	Title       string                     `json:"title,omitempty"`
	Type        string                     `json:"type"`
	Fields      map[string]FieldDefinition `json:"fields"`
	Definitions map[string]Schema          `json:"definitions,omitempty"`
}

// FieldDefinition describes a single field: its kind plus whatever
// constraints the source notation carried. Optional numeric constraints are
// pointers so that "unset" is distinguishable from zero.
type FieldDefinition struct {
	Name       string                     `json:"name,omitempty"`
	Kind       Kind                       `json:"kind"`
	Format     string                     `json:"format,omitempty"`
	Required   bool                       `json:"required,omitempty"`
	Unique     bool                       `json:"unique,omitempty"`
	PrimaryKey bool                       `json:"primaryKey,omitempty"`
	Min        *float64                   `json:"min,omitempty"`
	Max        *float64                   `json:"max,omitempty"`
	Precision  *int                       `json:"precision,omitempty"`
	Scale      *int                       `json:"scale,omitempty"`
	Pattern    string                     `json:"pattern,omitempty"`
	Values     []string                   `json:"values,omitempty"`
	Items      *FieldDefinition           `json:"items,omitempty"`
	Properties map[string]FieldDefinition `json:"properties,omitempty"`
	Default    any                        `json:"default,omitempty"`
}

// StructuralViolation reports a canonical-model invariant broken by a field,
// e.g. an array without items or an enum with no values.
type StructuralViolation struct {
	Field  string
	Reason string
}

func (e *StructuralViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("structural violation: %s", e.Reason)
	}
	return fmt.Sprintf("structural violation at %q: %s", e.Field, e.Reason)
}

// Validate checks the canonical-model invariants on every field, recursing
// into array items and object properties. It returns the first
// *StructuralViolation found, or nil.
func (s *Schema) Validate() error {
	if s.Fields == nil {
		return &StructuralViolation{Reason: "schema has no field map"}
	}
	for name, field := range s.Fields {
		if err := validateField(name, field); err != nil {
			return err
		}
	}
	return nil
}

func validateField(path string, field FieldDefinition) error {
	if !knownKinds[field.Kind] {
		return &StructuralViolation{Field: path, Reason: fmt.Sprintf("unknown kind %q", field.Kind)}
	}
	switch field.Kind {
	case KindArray:
		if field.Items == nil {
			return &StructuralViolation{Field: path, Reason: "array field has no items definition"}
		}
		return validateField(path+"[]", *field.Items)
	case KindEnum:
		if len(field.Values) == 0 {
			return &StructuralViolation{Field: path, Reason: "enum field has no values"}
		}
	case KindObject:
		if field.Properties == nil {
			return &StructuralViolation{Field: path, Reason: "object field has no properties map"}
		}
		for name, prop := range field.Properties {
			if err := validateField(path+"."+name, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

// Float returns a pointer to v. Convenience for optional bounds.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v. Convenience for precision/scale.
func Int(v int) *int {
	return &v
}
