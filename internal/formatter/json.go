// Package formatter renders generated record collections for export:
// JSON for fixtures and API mocks, CSV for spreadsheets, and SQL INSERT
// statements for seeding a database.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/synthrec/synthrec/internal/generator"
)

// JSONFormatter writes records as an indented JSON array.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes all records as one JSON document.
func (f *JSONFormatter) Format(name string, records []generator.Record) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
