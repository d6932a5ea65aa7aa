package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/synthrec/synthrec/internal/generator"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatSQL  = "sql"
)

// Formatter renders one named record collection to its writer.
type Formatter interface {
	Format(name string, records []generator.Record) error
}

// New returns the formatter for an output format name.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	case FormatSQL:
		return NewSQLFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// MultiFileFormatter writes each record collection to its own file in a
// directory, named <collection>.<ext>.
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "json", "csv" or "sql"
}

// NewMultiFileFormatter creates a new multi-file formatter.
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes every collection to the output directory.
func (f *MultiFileFormatter) Format(collections map[string][]generator.Record) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := f.writeCollection(name, collections[name]); err != nil {
			return fmt.Errorf("failed to write collection %s: %w", name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeCollection(name string, records []generator.Record) error {
	filename := filepath.Join(f.OutputDir, name+f.fileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	out, err := New(f.OutputFormat, file)
	if err != nil {
		return err
	}
	return out.Format(name, records)
}

func (f *MultiFileFormatter) fileExtension() string {
	switch f.OutputFormat {
	case FormatCSV:
		return ".csv"
	case FormatSQL:
		return ".sql"
	default:
		return ".json"
	}
}
