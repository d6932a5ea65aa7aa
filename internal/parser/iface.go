package parser

import (
	"regexp"
	"strings"

	"github.com/synthrec/synthrec/internal/schema"
)

// The interface parser extracts typed members from TypeScript-style
// interface and class declarations. Like the DDL parser it is a bounded
// extractor over a documented subset, not a language grammar.

var (
	blockStartRe = regexp.MustCompile(`\b(?:interface|class)\s+([A-Za-z_$][\w$]*)`)
	memberRe     = regexp.MustCompile(`(?m)^\s*(?:public\s+|private\s+|protected\s+)?(?:readonly\s+)?([A-Za-z_$][\w$]*)(\?)?\s*:\s*([^;]+);`)
)

// interfaceKinds maps bare type identifiers to canonical kinds. Unknown
// identifiers default to string.
var interfaceKinds = map[string]schema.Kind{
	"string":  schema.KindString,
	"number":  schema.KindNumber,
	"bigint":  schema.KindInteger,
	"boolean": schema.KindBoolean,
	"object":  schema.KindObject,
	"any":     schema.KindString,
	"unknown": schema.KindString,
}

type interfaceBlock struct {
	name string
	body string
}

// ParseInterface extracts one interface or class block from source text and
// maps its members into the canonical model. With an empty selector the
// first block is used; otherwise the block whose name matches. Fails with
// *NoDefinitionFoundError when no block exists or none matches.
func ParseInterface(src, selector string) (*schema.Schema, error) {
	blocks := extractBlocks(src)
	if len(blocks) == 0 {
		return nil, &NoDefinitionFoundError{}
	}

	block := blocks[0]
	if selector != "" {
		found := false
		for _, b := range blocks {
			if b.name == selector {
				block = b
				found = true
				break
			}
		}
		if !found {
			return nil, &NoDefinitionFoundError{Selector: selector}
		}
	}

	out := &schema.Schema{
		Title:  block.name,
		Type:   "object",
		Fields: make(map[string]schema.FieldDefinition),
	}

	for _, m := range memberRe.FindAllStringSubmatch(stripComments(block.body), -1) {
		name, optional, typeExpr := m[1], m[2] == "?", strings.TrimSpace(m[3])
		field := resolveType(typeExpr)
		field.Name = name
		field.Required = !optional
		out.Fields[name] = field
	}

	return out, nil
}

// extractBlocks finds every interface/class declaration and captures its
// brace-balanced body, tolerating one generic-parameter clause and an
// extends/implements list between the name and the opening brace.
func extractBlocks(src string) []interfaceBlock {
	var blocks []interfaceBlock

	for _, loc := range blockStartRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[loc[2]:loc[3]]
		rest := src[loc[1]:]

		// Skip a generic-parameter clause if present.
		if i := firstNonSpace(rest); i >= 0 && rest[i] == '<' {
			end := matchDelimiter(rest, i, '<', '>')
			if end < 0 {
				continue
			}
			rest = rest[end+1:]
		}

		open := strings.IndexByte(rest, '{')
		if open < 0 {
			continue
		}
		end := matchDelimiter(rest, open, '{', '}')
		if end < 0 {
			continue
		}

		blocks = append(blocks, interfaceBlock{name: name, body: rest[open+1 : end]})
	}

	return blocks
}

func firstNonSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' && s[i] != '\n' && s[i] != '\r' {
			return i
		}
	}
	return -1
}

// matchDelimiter returns the index of the delimiter closing the one at
// start, or -1 if the text ends unbalanced.
func matchDelimiter(s string, start int, open, closing byte) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var (
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

func stripComments(s string) string {
	return lineCommentRe.ReplaceAllString(blockCommentRe.ReplaceAllString(s, ""), "")
}

// resolveType maps a member type expression to a field definition,
// recursing through array and union forms.
func resolveType(expr string) schema.FieldDefinition {
	expr = strings.TrimSpace(expr)

	// Trailing [] means an array of the prefix type.
	if strings.HasSuffix(expr, "[]") {
		item := resolveType(strings.TrimSuffix(expr, "[]"))
		return schema.FieldDefinition{Kind: schema.KindArray, Items: &item}
	}

	// Array<T> is the generic spelling of the same.
	if inner, ok := genericArg(expr, "Array"); ok {
		item := resolveType(inner)
		return schema.FieldDefinition{Kind: schema.KindArray, Items: &item}
	}

	// Record<K, V> collapses to a plain object.
	if _, ok := genericArg(expr, "Record"); ok {
		return schema.FieldDefinition{Kind: schema.KindObject, Properties: map[string]schema.FieldDefinition{}}
	}

	if members := splitUnion(expr); len(members) > 1 || (len(members) == 1 && isQuoted(members[0])) {
		return resolveUnion(members)
	}

	switch expr {
	case "Date":
		return schema.FieldDefinition{Kind: schema.KindString, Format: "datetime"}
	case "null", "undefined":
		return schema.FieldDefinition{Kind: schema.KindString}
	}

	if kind, ok := interfaceKinds[expr]; ok {
		field := schema.FieldDefinition{Kind: kind}
		if kind == schema.KindObject {
			field.Properties = map[string]schema.FieldDefinition{}
		}
		return field
	}

	// Any other identifier (another interface, an unhandled construct)
	// falls back to string.
	return schema.FieldDefinition{Kind: schema.KindString}
}

func resolveUnion(members []string) schema.FieldDefinition {
	// A union made entirely of quoted string literals is an enum.
	allQuoted := true
	for _, m := range members {
		if !isQuoted(m) {
			allQuoted = false
			break
		}
	}
	if allQuoted {
		values := make([]string, len(members))
		for i, m := range members {
			values[i] = m[1 : len(m)-1]
		}
		return schema.FieldDefinition{Kind: schema.KindEnum, Values: values}
	}

	// Otherwise resolve the first member that is not null/undefined.
	for _, m := range members {
		if m != "null" && m != "undefined" {
			return resolveType(m)
		}
	}
	return schema.FieldDefinition{Kind: schema.KindString}
}

// splitUnion splits a type expression on pipes outside any bracket nesting.
func splitUnion(expr string) []string {
	var (
		members []string
		depth   int
		start   int
	)
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		case '|':
			if depth == 0 {
				members = append(members, strings.TrimSpace(expr[start:i]))
				start = i + 1
			}
		}
	}
	members = append(members, strings.TrimSpace(expr[start:]))
	return members
}

// genericArg returns the argument list of name<...> when expr is exactly
// that generic application.
func genericArg(expr, name string) (string, bool) {
	if !strings.HasPrefix(expr, name+"<") || !strings.HasSuffix(expr, ">") {
		return "", false
	}
	return strings.TrimSpace(expr[len(name)+1 : len(expr)-1]), true
}

func isQuoted(s string) bool {
	return len(s) >= 2 &&
		((s[0] == '\'' && s[len(s)-1] == '\'') ||
			(s[0] == '"' && s[len(s)-1] == '"'))
}
