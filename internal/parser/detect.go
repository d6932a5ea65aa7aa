// Package parser turns schema definitions written in four source notations
// (JSON Schema documents, CREATE TABLE statements, document-model path
// descriptors, and TypeScript-style interface declarations) into the
// canonical field model.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/synthrec/synthrec/internal/schema"
)

// Format identifies one of the supported source notations.
type Format string

const (
	FormatJSONSchema Format = "jsonschema"
	FormatDDL        Format = "ddl"
	FormatDocument   Format = "document"
	FormatInterface  Format = "interface"
)

var interfaceToken = regexp.MustCompile(`\b(interface|class)\b`)

// Detect chooses the parser for a raw input. A non-empty hint dispatches
// directly and fails with *UnsupportedFormatError if it is outside the
// closed set. Without a hint, string input that parses as JSON routes to
// the JSON Schema parser; otherwise ordered text heuristics apply. Map
// input is routed by the presence of a "paths" member, so document-model
// descriptors serialized to a JSON string need the explicit hint. If
// nothing matches, Detect fails with *DetectionFailureError.
func Detect(input any, hint Format) (Format, error) {
	if hint != "" {
		switch hint {
		case FormatJSONSchema, FormatDDL, FormatDocument, FormatInterface:
			return hint, nil
		default:
			return "", &UnsupportedFormatError{Hint: string(hint)}
		}
	}

	switch v := input.(type) {
	case string:
		return detectString(v)
	case []byte:
		return detectString(string(v))
	case map[string]any:
		if _, ok := v["paths"]; ok {
			return FormatDocument, nil
		}
		return FormatJSONSchema, nil
	}

	return "", &DetectionFailureError{}
}

func detectString(s string) (Format, error) {
	if json.Valid([]byte(s)) {
		return FormatJSONSchema, nil
	}

	if strings.Contains(strings.ToLower(s), "create table") {
		return FormatDDL, nil
	}
	if interfaceToken.MatchString(s) {
		return FormatInterface, nil
	}

	return "", &DetectionFailureError{}
}

// Parse detects the format of input (honoring hint) and runs the matching
// parser. It is the single entry point used by the public facade.
func Parse(input any, hint Format) (*schema.Schema, error) {
	format, err := Detect(input, hint)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSONSchema:
		return ParseJSONSchema(input)
	case FormatDDL:
		text, ok := asString(input)
		if !ok {
			return nil, &InputShapeError{Reason: "DDL input must be a string"}
		}
		return ParseDDL(text)
	case FormatDocument:
		return ParseDocument(input)
	case FormatInterface:
		text, ok := asString(input)
		if !ok {
			return nil, &InputShapeError{Reason: "interface input must be a string"}
		}
		return ParseInterface(text, "")
	}

	return nil, &UnsupportedFormatError{Hint: string(format)}
}

func asString(input any) (string, bool) {
	switch v := input.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}
