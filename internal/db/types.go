package db

import (
	"strconv"
	"strings"

	"github.com/synthrec/synthrec/internal/generator"
	"github.com/synthrec/synthrec/internal/schema"
)

// Source is the result of extracting a live database: one canonical schema
// per table, plus the foreign-key relations between them, ready to feed
// related-record generation.
type Source struct {
	Schemas   map[string]*schema.Schema
	Relations []generator.Relation
}

// columnField maps one column's vendor type to a canonical field. The type
// string may carry a size suffix, e.g. "varchar(255)" or "decimal(10,2)".
func columnField(name, vendorType string, nullable bool, defaultValue *string, isUnique bool, enumValues []string) schema.FieldDefinition {
	field := schema.FieldDefinition{
		Name:     name,
		Kind:     schema.KindString,
		Required: !nullable,
		Unique:   isUnique,
	}

	base := strings.ToLower(vendorType)
	var args string
	if i := strings.IndexByte(base, '('); i >= 0 {
		if j := strings.IndexByte(base, ')'); j > i {
			args = base[i+1 : j]
		}
		base = base[:i]
	}
	base = strings.TrimSpace(base)

	switch base {
	case "int", "integer", "bigint", "smallint", "mediumint", "int2", "int4", "int8",
		"serial", "bigserial", "smallserial":
		field.Kind = schema.KindInteger
	case "tinyint":
		field.Kind = schema.KindInteger
		if strings.TrimSpace(args) == "1" {
			field.Kind = schema.KindBoolean
		}
	case "decimal", "numeric", "float", "double", "double precision", "real",
		"float4", "float8", "money":
		field.Kind = schema.KindNumber
		applyNumericArgs(&field, args)
	case "bool", "boolean":
		field.Kind = schema.KindBoolean
	case "json", "jsonb":
		field.Kind = schema.KindObject
		field.Properties = map[string]schema.FieldDefinition{}
	case "date":
		field.Format = "date"
	case "datetime", "timestamp", "timestamptz":
		field.Format = "datetime"
	case "time", "timetz":
		field.Format = "time"
	case "uuid":
		field.Format = "uuid"
	case "char", "varchar", "nvarchar", "character", "character varying", "text",
		"tinytext", "mediumtext", "longtext", "clob":
		if size, ok := parseSize(args); ok {
			field.Max = schema.Float(size)
		}
	case "enum":
		// MySQL inlines enum values in the column type.
		field.Kind = schema.KindEnum
		field.Values = parseEnumArgs(args)
	}

	if len(enumValues) > 0 {
		field.Kind = schema.KindEnum
		field.Values = enumValues
	}

	if defaultValue != nil {
		field.Default = coerceColumnDefault(*defaultValue, field.Kind)
	}

	if field.Kind == schema.KindString && field.Format == "" {
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "email"):
			field.Format = "email"
		case strings.Contains(lower, "phone"):
			field.Format = "phone"
		case strings.Contains(lower, "url"):
			field.Format = "url"
		case strings.Contains(lower, "uuid"):
			field.Format = "uuid"
		}
	}

	return field
}

// nonLiteralDefaults are vendor default keywords that evaluate at insert
// time and must not leak into generated records as text.
var nonLiteralDefaults = map[string]bool{
	"NULL":              true,
	"CURRENT_TIMESTAMP": true,
	"CURRENT_DATE":      true,
	"CURRENT_TIME":      true,
	"NOW":               true,
	"LOCALTIMESTAMP":    true,
}

// coerceColumnDefault converts a vendor default expression to a literal of
// the column's kind. Expression defaults (nextval, now(), uuid functions)
// and literals that do not fit the kind yield nil.
func coerceColumnDefault(expr string, kind schema.Kind) any {
	expr = strings.TrimSpace(expr)

	// Postgres suffixes text defaults with a cast: 'active'::character varying.
	if i := strings.Index(expr, "::"); i >= 0 {
		expr = strings.TrimSpace(expr[:i])
	}
	if expr == "" || strings.ContainsAny(expr, "()") {
		return nil
	}

	quoted := false
	if len(expr) >= 2 && expr[0] == '\'' && expr[len(expr)-1] == '\'' {
		quoted = true
		expr = strings.ReplaceAll(expr[1:len(expr)-1], "''", "'")
	}

	switch kind {
	case schema.KindInteger:
		if v, err := strconv.ParseInt(expr, 10, 64); err == nil {
			return v
		}
	case schema.KindNumber:
		if v, err := strconv.ParseFloat(expr, 64); err == nil {
			return v
		}
	case schema.KindBoolean:
		switch strings.ToUpper(expr) {
		case "TRUE", "1":
			return true
		case "FALSE", "0":
			return false
		}
	default:
		if quoted {
			return expr
		}
		// MySQL reports plain text defaults unquoted; keep bare words but
		// drop insert-time keywords.
		if !nonLiteralDefaults[strings.ToUpper(expr)] {
			return expr
		}
	}
	return nil
}

func applyNumericArgs(field *schema.FieldDefinition, args string) {
	parts := strings.Split(args, ",")
	if precision, ok := parseSize(strings.TrimSpace(parts[0])); ok {
		field.Precision = schema.Int(int(precision))
	}
	if len(parts) > 1 {
		if scale, ok := parseSize(strings.TrimSpace(parts[1])); ok {
			field.Scale = schema.Int(int(scale))
		}
	}
}

func parseSize(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	var n float64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + float64(r-'0')
	}
	return n, true
}

func parseEnumArgs(args string) []string {
	var values []string
	for _, part := range strings.Split(args, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, "'\"")
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}
