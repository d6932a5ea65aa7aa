package schema

import "strings"

// formatRule infers a string format from a field name. Rules are applied in
// order; the first match wins.
type formatRule struct {
	format string
	match  func(name string) bool
}

var formatRules = []formatRule{
	{"email", func(n string) bool { return strings.Contains(n, "email") }},
	{"phone", func(n string) bool {
		return strings.Contains(n, "phone") || strings.Contains(n, "mobile") || strings.Contains(n, "tel")
	}},
	{"url", func(n string) bool {
		return strings.Contains(n, "url") || strings.Contains(n, "website") || strings.Contains(n, "link")
	}},
	{"uuid", func(n string) bool { return strings.Contains(n, "uuid") || strings.Contains(n, "guid") }},
	{"date", func(n string) bool {
		return strings.Contains(n, "date") && !strings.Contains(n, "datetime") && !strings.Contains(n, "time")
	}},
	{"datetime", func(n string) bool { return strings.Contains(n, "datetime") }},
	{"password", func(n string) bool { return strings.Contains(n, "password") }},
}

// defaultBounds are length bounds assigned by format when a string field has
// neither bound set.
var defaultBounds = map[string][2]float64{
	"email": {5, 255},
	"url":   {10, 2083},
	"phone": {7, 20},
}

// Enhance returns a copy of s with missing formats and length bounds on
// top-level string fields inferred from field names. It is purely additive:
// an author-set format, min, or max is never overwritten, and a field with
// either bound already set keeps its bounds untouched. Nested properties and
// array items are deliberately out of scope.
func Enhance(s *Schema) *Schema {
	if s == nil {
		return nil
	}

	out := *s
	out.Fields = make(map[string]FieldDefinition, len(s.Fields))

	for name, field := range s.Fields {
		if field.Kind == KindString {
			lower := strings.ToLower(name)

			if field.Format == "" {
				for _, rule := range formatRules {
					if rule.match(lower) {
						field.Format = rule.format
						break
					}
				}
			}

			if field.Min == nil && field.Max == nil {
				if bounds, ok := boundsFor(field.Format, lower); ok {
					field.Min = Float(bounds[0])
					field.Max = Float(bounds[1])
				}
			}
		}
		out.Fields[name] = field
	}

	return &out
}

func boundsFor(format, name string) ([2]float64, bool) {
	if bounds, ok := defaultBounds[format]; ok {
		return bounds, true
	}
	if strings.Contains(name, "name") {
		return [2]float64{2, 100}, true
	}
	if strings.Contains(name, "description") {
		return [2]float64{10, 1000}, true
	}
	return [2]float64{}, false
}
