package formatter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/synthrec/synthrec/internal/generator"
)

func sampleRecords() []generator.Record {
	return []generator.Record{
		{"id": int64(1), "name": "Ada", "active": true},
		{"id": int64(2), "name": "Lin", "score": 4.5},
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	if err := f.Format("users", sampleRecords()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("Expected 2 records, got %d", len(decoded))
	}
	if decoded[0]["name"] != "Ada" {
		t.Errorf("Expected name Ada, got %v", decoded[0]["name"])
	}
}

func TestCSVFormatterHeaderUnion(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	if err := f.Format("users", sampleRecords()); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}

	// Header is the sorted union of every field seen.
	if lines[0] != "active,id,name,score" {
		t.Errorf("Unexpected header: %q", lines[0])
	}

	// The first record has no score; its cell must be empty.
	if !strings.HasSuffix(lines[1], ",") {
		t.Errorf("Expected empty trailing cell for missing field, got %q", lines[1])
	}
}

func TestCSVFormatterEncodesNestedValues(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	records := []generator.Record{
		{"tags": []any{"a", "b"}},
	}
	if err := f.Format("items", records); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"[""a"",""b""]"`) {
		t.Errorf("Expected JSON-encoded array cell, got %q", buf.String())
	}
}

func TestSQLFormatter(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		records  []generator.Record
		expected []string
	}{
		{
			name:     "quotes strings and escapes single quotes",
			table:    "users",
			records:  []generator.Record{{"name": "O'Brien"}},
			expected: []string{`INSERT INTO "users" ("name") VALUES ('O''Brien');`},
		},
		{
			name:     "renders null bool and numbers",
			table:    "users",
			records:  []generator.Record{{"active": true, "age": int64(30), "bio": nil}},
			expected: []string{`INSERT INTO "users" ("active", "age", "bio") VALUES (TRUE, 30, NULL);`},
		},
		{
			name:     "falls back to default table name",
			table:    "",
			records:  []generator.Record{{"n": int64(1)}},
			expected: []string{`INSERT INTO "records" ("n") VALUES (1);`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewSQLFormatter(&buf)

			if err := f.Format(tt.table, tt.records); err != nil {
				t.Fatalf("Format failed: %v", err)
			}

			got := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d statements, got %d", len(tt.expected), len(got))
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("Statement %d:\n  got:  %s\n  want: %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New("yaml", &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestMultiFileFormatter(t *testing.T) {
	dir := t.TempDir()
	f := NewMultiFileFormatter(dir, FormatJSON)

	collections := map[string][]generator.Record{
		"authors": {{"id": "a1"}},
		"books":   {{"id": "b1", "authorId": "a1"}},
	}
	if err := f.Format(collections); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, name := range []string{"authors.json", "books.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Expected %s to exist: %v", name, err)
		}
		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Errorf("%s is not valid JSON: %v", name, err)
		}
	}
}
