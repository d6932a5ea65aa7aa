package parser

import (
	"encoding/json"
	"strings"

	"github.com/synthrec/synthrec/internal/schema"
)

// documentKinds maps document-model instance names (Mongoose-style path
// descriptors) to canonical kinds.
var documentKinds = map[string]schema.Kind{
	"String":     schema.KindString,
	"Number":     schema.KindNumber,
	"Decimal128": schema.KindNumber,
	"Boolean":    schema.KindBoolean,
	"Date":       schema.KindString,
	"Buffer":     schema.KindString,
	"Array":      schema.KindArray,
	"Map":        schema.KindObject,
	"Mixed":      schema.KindObject,
	"Embedded":   schema.KindObject,
	"ObjectID":   schema.KindReference,
	"ObjectId":   schema.KindReference,
}

// ParseDocument walks a path-keyed descriptor map (name -> {instance,
// options, schema?, caster?}) into the canonical model. The input may be the
// descriptor map itself, a wrapper object with a "paths" member, or a JSON
// string of either. Internal bookkeeping paths (leading underscore) are
// skipped, except the identity field "_id".
func ParseDocument(input any) (*schema.Schema, error) {
	paths, err := pathsOf(input)
	if err != nil {
		return nil, err
	}

	out := &schema.Schema{
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}

	for name, raw := range paths {
		if strings.HasPrefix(name, "_") && name != "_id" {
			continue
		}
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, &InputShapeError{Reason: "path " + name + " is not a descriptor object"}
		}
		out.Fields[name] = parsePathEntry(name, entry)
	}

	return out, nil
}

func pathsOf(input any) (map[string]any, error) {
	switch v := input.(type) {
	case map[string]any:
		if paths, ok := v["paths"].(map[string]any); ok {
			return paths, nil
		}
		return v, nil
	case string:
		var doc map[string]any
		if err := json.Unmarshal([]byte(v), &doc); err != nil {
			return nil, &InputShapeError{Reason: "document-model input is not valid JSON", Cause: err}
		}
		return pathsOf(doc)
	case []byte:
		return pathsOf(string(v))
	}
	return nil, &InputShapeError{Reason: "document-model input must be an object or JSON string"}
}

func parsePathEntry(name string, entry map[string]any) schema.FieldDefinition {
	field := schema.FieldDefinition{Name: name, Kind: schema.KindString}

	instance, _ := entry["instance"].(string)
	if kind, ok := documentKinds[instance]; ok {
		field.Kind = kind
	}
	if instance == "Date" {
		field.Format = "datetime"
	}

	if options, ok := entry["options"].(map[string]any); ok {
		applyPathOptions(&field, options)
	}

	// Nested sub-schema: an embedded document, or the element shape of a
	// document array.
	if sub, ok := entry["schema"].(map[string]any); ok {
		nested, err := ParseDocument(sub)
		if err == nil {
			if field.Kind == schema.KindArray {
				field.Items = &schema.FieldDefinition{
					Kind:       schema.KindObject,
					Properties: nested.Fields,
				}
			} else {
				field.Kind = schema.KindObject
				field.Properties = nested.Fields
			}
		}
	}

	if field.Kind == schema.KindArray && field.Items == nil {
		if caster, ok := entry["caster"].(map[string]any); ok {
			item := parsePathEntry("", caster)
			item.Name = ""
			field.Items = &item
		} else {
			field.Items = &schema.FieldDefinition{Kind: schema.KindString}
		}
	}

	if field.Kind == schema.KindObject && field.Properties == nil {
		field.Properties = make(map[string]schema.FieldDefinition)
	}

	return field
}

func applyPathOptions(field *schema.FieldDefinition, options map[string]any) {
	switch required := options["required"].(type) {
	case bool:
		field.Required = required
	case []any:
		// Mongoose allows [true, "message"].
		if len(required) > 0 {
			if b, ok := required[0].(bool); ok {
				field.Required = b
			}
		}
	}

	// A literal default is kept; a computed default (serialized as an
	// object or absent entirely) is skipped.
	switch def := options["default"].(type) {
	case string, float64, int, int64, bool:
		field.Default = def
	}

	if enum, ok := options["enum"].([]any); ok && len(enum) > 0 {
		field.Kind = schema.KindEnum
		field.Values = stringifyAll(enum)
	}

	switch match := options["match"].(type) {
	case string:
		field.Pattern = match
	case []any:
		if len(match) > 0 {
			if pattern, ok := match[0].(string); ok {
				field.Pattern = pattern
			}
		}
	}

	field.Unique, _ = options["unique"].(bool)

	if min, ok := optionNumber(options, "min", "minlength", "minLength"); ok {
		field.Min = schema.Float(min)
	}
	if max, ok := optionNumber(options, "max", "maxlength", "maxLength"); ok {
		field.Max = schema.Float(max)
	}
}

// optionNumber reads the first present numeric option among keys, accepting
// both a bare number and the [value, "message"] tuple form.
func optionNumber(options map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := options[key]
		if !ok {
			continue
		}
		if n, ok := numberOf(raw); ok {
			return n, true
		}
		if tuple, ok := raw.([]any); ok && len(tuple) > 0 {
			if n, ok := numberOf(tuple[0]); ok {
				return n, true
			}
		}
	}
	return 0, false
}
