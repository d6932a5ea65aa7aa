package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/synthrec/synthrec/internal/schema"
)

// The DDL parser is a bounded-pattern extractor, not a SQL grammar. It
// handles one CREATE TABLE block over the documented syntax subset and
// fails loudly on anything it cannot place.

var (
	createTableRe = regexp.MustCompile(`(?is)create\s+table\s+(?:if\s+not\s+exists\s+)?[\x60"\[]?(\w+)[\x60"\]]?\s*\((.*)\)`)
	columnTypeRe  = regexp.MustCompile(`(?i)^([a-z][a-z0-9_]*)\s*(?:\(([^)]*)\))?`)
	checkBoundRe  = regexp.MustCompile(`(?i)check\s*\(\s*[\x60"]?(\w+)[\x60"]?\s*(>=|<=|>|<|=)\s*(-?\d+(?:\.\d+)?)\s*\)`)
	defaultRe     = regexp.MustCompile(`(?i)\bdefault\s+('(?:[^']*)'|"(?:[^"]*)"|[^\s,]+)`)
	quotedValueRe = regexp.MustCompile(`'((?:[^']|'')*)'`)
)

// tableConstraintKeywords classify a column-list entry as a table-level
// constraint to be skipped rather than a column.
var tableConstraintKeywords = map[string]bool{
	"PRIMARY":    true,
	"FOREIGN":    true,
	"UNIQUE":     true,
	"CHECK":      true,
	"CONSTRAINT": true,
	"KEY":        true,
	"INDEX":      true,
}

// ddlKinds maps vendor type names to canonical kinds. Unlisted types fall
// back to string.
var ddlKinds = map[string]schema.Kind{
	"INT": schema.KindInteger, "INTEGER": schema.KindInteger, "BIGINT": schema.KindInteger,
	"SMALLINT": schema.KindInteger, "MEDIUMINT": schema.KindInteger, "TINYINT": schema.KindInteger,
	"SERIAL": schema.KindInteger, "BIGSERIAL": schema.KindInteger, "SMALLSERIAL": schema.KindInteger,
	"DECIMAL": schema.KindNumber, "NUMERIC": schema.KindNumber, "FLOAT": schema.KindNumber,
	"DOUBLE": schema.KindNumber, "REAL": schema.KindNumber, "MONEY": schema.KindNumber,
	"BOOL": schema.KindBoolean, "BOOLEAN": schema.KindBoolean,
	"ENUM": schema.KindEnum,
	"JSON": schema.KindObject, "JSONB": schema.KindObject,
}

// ddlStringFormats refine string-typed columns by vendor type name.
var ddlStringFormats = map[string]string{
	"DATE":        "date",
	"DATETIME":    "datetime",
	"TIMESTAMP":   "datetime",
	"TIMESTAMPTZ": "datetime",
	"TIME":        "time",
	"UUID":        "uuid",
}

// ParseDDL extracts a single CREATE TABLE statement into the canonical
// model. It fails with *DdlParseError when no CREATE TABLE block is found
// or a column definition cannot be read.
func ParseDDL(sql string) (*schema.Schema, error) {
	matches := createTableRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, &DdlParseError{Reason: "no CREATE TABLE statement found"}
	}

	out := &schema.Schema{
		Title:  matches[1],
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}

	for _, entry := range splitColumns(matches[2]) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		firstWord := strings.ToUpper(firstToken(entry))
		if tableConstraintKeywords[firstWord] {
			continue
		}

		field, err := parseColumn(entry)
		if err != nil {
			return nil, err
		}
		out.Fields[field.Name] = field
	}

	if len(out.Fields) == 0 {
		return nil, &DdlParseError{Reason: "CREATE TABLE has no column definitions"}
	}

	return out, nil
}

// splitColumns splits a column list on commas that are not nested inside
// parentheses, so enum value lists and numeric precision survive intact.
func splitColumns(columns string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range columns {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, columns[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, columns[start:])
	return parts
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func parseColumn(entry string) (schema.FieldDefinition, error) {
	name := strings.Trim(firstToken(entry), "`\"[]")
	rest := strings.TrimSpace(entry[len(firstToken(entry)):])

	typeMatch := columnTypeRe.FindStringSubmatch(rest)
	if name == "" || typeMatch == nil {
		return schema.FieldDefinition{}, &DdlParseError{Reason: "unreadable column definition: " + strings.TrimSpace(entry)}
	}

	typeName := strings.ToUpper(typeMatch[1])
	typeArgs := typeMatch[2]
	clauses := rest[len(typeMatch[0]):]

	field := schema.FieldDefinition{Name: name, Kind: schema.KindString}
	if kind, ok := ddlKinds[typeName]; ok {
		field.Kind = kind
	}
	if format, ok := ddlStringFormats[typeName]; ok {
		field.Format = format
	}

	applyTypeArgs(&field, typeName, typeArgs)
	applyColumnClauses(&field, clauses)

	// MySQL convention: TINYINT(1) is a boolean.
	if typeName == "TINYINT" && strings.TrimSpace(typeArgs) == "1" {
		field.Kind = schema.KindBoolean
	}

	if field.Kind == schema.KindObject && field.Properties == nil {
		field.Properties = make(map[string]schema.FieldDefinition)
	}

	// Infer a format from the column name for plain strings.
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

	return field, nil
}

func applyTypeArgs(field *schema.FieldDefinition, typeName, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		return
	}

	switch field.Kind {
	case schema.KindEnum:
		for _, m := range quotedValueRe.FindAllStringSubmatch(args, -1) {
			field.Values = append(field.Values, strings.ReplaceAll(m[1], "''", "'"))
		}
	case schema.KindString:
		// CHAR/VARCHAR length becomes the max length.
		if size, err := strconv.ParseFloat(args, 64); err == nil {
			field.Max = schema.Float(size)
		}
	case schema.KindNumber:
		parts := strings.Split(args, ",")
		if precision, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			field.Precision = schema.Int(precision)
		}
		if len(parts) > 1 {
			if scale, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
				field.Scale = schema.Int(scale)
			}
		}
	case schema.KindInteger:
		_ = typeName // display width, irrelevant to generation
	}
}

func applyColumnClauses(field *schema.FieldDefinition, clauses string) {
	upper := strings.ToUpper(clauses)

	if strings.Contains(upper, "NOT NULL") {
		field.Required = true
	}
	if strings.Contains(upper, "PRIMARY KEY") {
		field.Required = true
		field.PrimaryKey = true
	}
	// UNIQUE, but not the UNIQUE inside a longer keyword sequence we
	// already consumed (PRIMARY KEY never contains it).
	if strings.Contains(upper, "UNIQUE") {
		field.Unique = true
	}

	if m := defaultRe.FindStringSubmatch(clauses); m != nil {
		field.Default = coerceDefault(m[1], field.Kind)
	}

	// CHECK bounds: only the simple `column op number` form referencing
	// this same column yields a bound. Compound expressions are ignored.
	if m := checkBoundRe.FindStringSubmatch(clauses); m != nil && strings.EqualFold(m[1], field.Name) {
		value, err := strconv.ParseFloat(m[3], 64)
		if err == nil {
			switch m[2] {
			case ">", ">=":
				field.Min = schema.Float(value)
			case "<", "<=":
				field.Max = schema.Float(value)
			}
		}
	}
}

// coerceDefault converts a DEFAULT literal to the field's kind. Literals
// that do not fit (or vendor keywords like CURRENT_TIMESTAMP) are kept as
// their raw text.
func coerceDefault(literal string, kind schema.Kind) any {
	literal = strings.TrimSpace(literal)
	if unquoted := quotedValueRe.FindStringSubmatch(literal); unquoted != nil {
		literal = strings.ReplaceAll(unquoted[1], "''", "'")
	} else {
		literal = strings.Trim(literal, `"`)
	}

	switch kind {
	case schema.KindInteger:
		if v, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return v
		}
	case schema.KindNumber:
		if v, err := strconv.ParseFloat(literal, 64); err == nil {
			return v
		}
	case schema.KindBoolean:
		switch strings.ToUpper(literal) {
		case "TRUE", "1":
			return true
		case "FALSE", "0":
			return false
		}
	}
	return literal
}
