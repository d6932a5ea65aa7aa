package parser

import "fmt"

// UnsupportedFormatError reports a format hint outside the closed set.
type UnsupportedFormatError struct {
	Hint string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported schema format %q (must be one of %s, %s, %s, %s)",
		e.Hint, FormatJSONSchema, FormatDDL, FormatDocument, FormatInterface)
}

// DetectionFailureError reports that no detection heuristic matched and no
// hint was given.
type DetectionFailureError struct{}

func (e *DetectionFailureError) Error() string {
	return "unable to detect schema format: no heuristic matched"
}

// InputShapeError reports raw input of the wrong type or structure for the
// chosen parser.
type InputShapeError struct {
	Reason string
	Cause  error
}

func (e *InputShapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

func (e *InputShapeError) Unwrap() error {
	return e.Cause
}

// DdlParseError reports DDL text the bounded extractor could not handle.
type DdlParseError struct {
	Reason string
	Cause  error
}

func (e *DdlParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse DDL: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("failed to parse DDL: %s", e.Reason)
}

func (e *DdlParseError) Unwrap() error {
	return e.Cause
}

// NoDefinitionFoundError reports source text containing no interface or
// class block, or none matching the requested name.
type NoDefinitionFoundError struct {
	Selector string
}

func (e *NoDefinitionFoundError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("no interface or class definition named %q found", e.Selector)
	}
	return "no interface or class definition found"
}
