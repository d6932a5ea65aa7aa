package parser

import (
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/synthrec/synthrec/internal/schema"
)

// jsonTypeKinds maps JSON Schema type names to canonical kinds.
var jsonTypeKinds = map[string]schema.Kind{
	"string":  schema.KindString,
	"number":  schema.KindNumber,
	"integer": schema.KindInteger,
	"boolean": schema.KindBoolean,
	"array":   schema.KindArray,
	"object":  schema.KindObject,
}

// jsonFormats maps JSON Schema format names to canonical formats. Formats
// outside the table are dropped rather than passed through.
var jsonFormats = map[string]string{
	"email":     "email",
	"uri":       "url",
	"url":       "url",
	"uuid":      "uuid",
	"guid":      "uuid",
	"phone":     "phone",
	"date":      "date",
	"date-time": "datetime",
	"datetime":  "datetime",
	"time":      "time",
	"hostname":  "hostname",
	"ipv4":      "ipv4",
	"password":  "password",
}

// ParseJSONSchema maps a JSON Schema document (a map, a JSON string, or a
// YAML string) into the canonical model. A sibling "definitions" or
// "components.schemas" map becomes the canonical Definitions, one level
// deep. Non-object input fails with *InputShapeError.
func ParseJSONSchema(input any) (*schema.Schema, error) {
	doc, err := toDocument(input)
	if err != nil {
		return nil, err
	}

	out := &schema.Schema{
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}
	if title, ok := doc["title"].(string); ok {
		out.Title = title
	}

	props, _ := doc["properties"].(map[string]any)
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			return nil, &InputShapeError{Reason: "property " + strconv.Quote(name) + " is not an object"}
		}
		out.Fields[name] = parseProperty(name, prop)
	}

	// Top-level required array promotes the named fields.
	if required, ok := doc["required"].([]any); ok {
		for _, entry := range required {
			name, ok := entry.(string)
			if !ok {
				continue
			}
			if field, exists := out.Fields[name]; exists {
				field.Required = true
				out.Fields[name] = field
			}
		}
	}

	if defs := definitionsOf(doc); defs != nil {
		out.Definitions = make(map[string]schema.Schema, len(defs))
		for name, raw := range defs {
			defDoc, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			def := schema.Schema{Type: "object", Fields: make(map[string]schema.FieldDefinition)}
			if defProps, ok := defDoc["properties"].(map[string]any); ok {
				for propName, rawProp := range defProps {
					if propDoc, ok := rawProp.(map[string]any); ok {
						def.Fields[propName] = parseProperty(propName, propDoc)
					}
				}
			}
			out.Definitions[name] = def
		}
	}

	return out, nil
}

// toDocument normalizes the accepted input shapes to a generic map. Strings
// are tried as JSON first, then as YAML (OpenAPI-style documents are
// commonly YAML); both decode errors are reported if neither applies.
func toDocument(input any) (map[string]any, error) {
	switch v := input.(type) {
	case map[string]any:
		return v, nil
	case []byte:
		return decodeDocument(v)
	case string:
		return decodeDocument([]byte(v))
	}
	return nil, &InputShapeError{Reason: "JSON Schema input must be an object or a document string"}
}

func decodeDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InputShapeError{Reason: "document is neither valid JSON nor YAML", Cause: err}
	}
	return doc, nil
}

func definitionsOf(doc map[string]any) map[string]any {
	if defs, ok := doc["definitions"].(map[string]any); ok {
		return defs
	}
	if components, ok := doc["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			return schemas
		}
	}
	return nil
}

func parseProperty(name string, prop map[string]any) schema.FieldDefinition {
	field := schema.FieldDefinition{Name: name, Kind: schema.KindString}

	if typeName, ok := prop["type"].(string); ok {
		if kind, known := jsonTypeKinds[typeName]; known {
			field.Kind = kind
		}
	}

	if format, ok := prop["format"].(string); ok {
		if mapped, known := jsonFormats[format]; known {
			field.Format = mapped
		}
	}

	if pattern, ok := prop["pattern"].(string); ok {
		field.Pattern = pattern
	}

	if enum, ok := prop["enum"].([]any); ok && len(enum) > 0 {
		field.Kind = schema.KindEnum
		field.Values = stringifyAll(enum)
	}

	if min, ok := numberOf(prop["minimum"]); ok {
		field.Min = schema.Float(min)
	} else if min, ok := numberOf(prop["minLength"]); ok {
		field.Min = schema.Float(min)
	} else if min, ok := numberOf(prop["minItems"]); ok {
		field.Min = schema.Float(min)
	}
	if max, ok := numberOf(prop["maximum"]); ok {
		field.Max = schema.Float(max)
	} else if max, ok := numberOf(prop["maxLength"]); ok {
		field.Max = schema.Float(max)
	} else if max, ok := numberOf(prop["maxItems"]); ok {
		field.Max = schema.Float(max)
	}

	if def, ok := prop["default"]; ok {
		field.Default = def
	}

	if items, ok := prop["items"].(map[string]any); ok && field.Kind == schema.KindArray {
		itemField := parseProperty("", items)
		field.Items = &itemField
	} else if field.Kind == schema.KindArray {
		// Untyped items default to unconstrained strings.
		field.Items = &schema.FieldDefinition{Kind: schema.KindString}
	}

	if field.Kind == schema.KindObject {
		field.Properties = make(map[string]schema.FieldDefinition)
		if nested, ok := prop["properties"].(map[string]any); ok {
			for nestedName, rawNested := range nested {
				if nestedProp, ok := rawNested.(map[string]any); ok {
					field.Properties[nestedName] = parseProperty(nestedName, nestedProp)
				}
			}
			if required, ok := prop["required"].([]any); ok {
				for _, entry := range required {
					if reqName, ok := entry.(string); ok {
						if nestedField, exists := field.Properties[reqName]; exists {
							nestedField.Required = true
							field.Properties[reqName] = nestedField
						}
					}
				}
			}
		}
	}

	return field
}

// numberOf accepts the numeric types the JSON and YAML decoders produce.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func stringifyAll(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch s := v.(type) {
		case string:
			out = append(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		case int:
			out = append(out, strconv.Itoa(s))
		case bool:
			out = append(out, strconv.FormatBool(s))
		}
	}
	return out
}
