package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/synthrec/synthrec/internal/generator"
)

// SQLFormatter writes records as INSERT statements suitable for seeding a
// database. Column order follows the sorted union of field names.
type SQLFormatter struct {
	writer io.Writer
}

// NewSQLFormatter creates a new SQL formatter.
func NewSQLFormatter(w io.Writer) *SQLFormatter {
	return &SQLFormatter{writer: w}
}

// Format writes one INSERT per record into the named table.
func (f *SQLFormatter) Format(name string, records []generator.Record) error {
	if name == "" {
		name = "records"
	}

	columns := headerUnion(records)
	for _, record := range records {
		values := make([]string, len(columns))
		for i, column := range columns {
			values[i] = sqlLiteral(record[column])
		}
		_, err := fmt.Fprintf(f.writer, "INSERT INTO %s (%s) VALUES (%s);\n",
			quoteIdent(name),
			joinIdents(columns),
			strings.Join(values, ", "))
		if err != nil {
			return fmt.Errorf("failed to write statement: %w", err)
		}
	}
	return nil
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlLiteral renders a generated value as a SQL literal. Nested values are
// JSON-encoded and quoted, which matches json/jsonb and text columns.
func sqlLiteral(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case bool:
		if value {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return "NULL"
		}
		return "'" + strings.ReplaceAll(string(data), "'", "''") + "'"
	}
}
