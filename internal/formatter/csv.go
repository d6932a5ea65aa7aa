package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/synthrec/synthrec/internal/generator"
)

// CSVFormatter writes records as CSV with a header row. The header is the
// sorted union of all field names, so ragged records still line up.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// Format writes a header row followed by one row per record. Nested values
// (objects, arrays) are JSON-encoded into their cell.
func (f *CSVFormatter) Format(name string, records []generator.Record) error {
	w := csv.NewWriter(f.writer)

	header := headerUnion(records)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, record := range records {
		row := make([]string, len(header))
		for i, field := range header {
			row[i] = cellValue(record[field])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func headerUnion(records []generator.Record) []string {
	seen := map[string]bool{}
	for _, record := range records {
		for field := range record {
			seen[field] = true
		}
	}
	header := make([]string, 0, len(seen))
	for field := range seen {
		header = append(header, field)
	}
	sort.Strings(header)
	return header
}

func cellValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(data)
	}
}
