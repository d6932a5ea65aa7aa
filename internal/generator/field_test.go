package generator

import (
	"math"
	"math/rand"
	"net/mail"
	"net/url"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthrec/synthrec/internal/schema"
)

func testGenerator(seed int64) *FieldGenerator {
	return NewFieldGenerator(rand.New(rand.NewSource(seed)))
}

func TestGenerateIntegerBounds(t *testing.T) {
	g := testGenerator(1)
	field := schema.FieldDefinition{Kind: schema.KindInteger, Min: schema.Float(0), Max: schema.Float(10)}

	for i := 0; i < 1000; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		n, ok := value.(int64)
		require.True(t, ok, "integer fields generate int64, got %T", value)
		assert.GreaterOrEqual(t, n, int64(0))
		assert.LessOrEqual(t, n, int64(10))
	}
}

func TestGenerateNumberBoundsAndPrecision(t *testing.T) {
	g := testGenerator(2)
	field := schema.FieldDefinition{
		Kind: schema.KindNumber,
		Min:  schema.Float(1),
		Max:  schema.Float(5),
		Scale: func() *int {
			v := 2
			return &v
		}(),
	}

	for i := 0; i < 500; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		n := value.(float64)
		assert.GreaterOrEqual(t, n, 1.0)
		assert.LessOrEqual(t, n, 5.0)
		assert.InDelta(t, math.Round(n*100), n*100, 1e-9, "at most two fractional digits")
	}
}

func TestGenerateNumberDefaultPrecisionIsIntegral(t *testing.T) {
	g := testGenerator(3)
	value, err := g.Generate(schema.FieldDefinition{Kind: schema.KindNumber})
	require.NoError(t, err)
	n := value.(float64)
	assert.Equal(t, n, float64(int64(n)))
}

func TestGenerateStringLength(t *testing.T) {
	g := testGenerator(4)
	field := schema.FieldDefinition{Kind: schema.KindString, Min: schema.Float(8), Max: schema.Float(12)}

	for i := 0; i < 200; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		s := value.(string)
		assert.GreaterOrEqual(t, len(s), 8)
		assert.LessOrEqual(t, len(s), 12)
	}
}

func TestGenerateStringMaxBelowDefaultMin(t *testing.T) {
	g := testGenerator(15)
	field := schema.FieldDefinition{Kind: schema.KindString, Max: schema.Float(2)}

	for i := 0; i < 200; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		s := value.(string)
		assert.LessOrEqual(t, len(s), 2, "generated %q exceeds declared max", s)
	}
}

func TestGenerateStringMinAboveDefaultMax(t *testing.T) {
	g := testGenerator(16)
	field := schema.FieldDefinition{Kind: schema.KindString, Min: schema.Float(20)}

	for i := 0; i < 50; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(value.(string)), 20)
	}
}

func TestGenerateArrayMaxBelowDefaultMin(t *testing.T) {
	g := testGenerator(17)
	field := schema.FieldDefinition{
		Kind:  schema.KindArray,
		Max:   schema.Float(0),
		Items: &schema.FieldDefinition{Kind: schema.KindString},
	}

	for i := 0; i < 50; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		assert.Empty(t, value)
	}
}

func TestGenerateIntegerMaxBelowDefaultMin(t *testing.T) {
	g := testGenerator(18)
	field := schema.FieldDefinition{Kind: schema.KindInteger, Max: schema.Float(-5)}

	for i := 0; i < 50; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		assert.LessOrEqual(t, value.(int64), int64(-5))
	}
}

func TestGenerateStringFormats(t *testing.T) {
	g := testGenerator(5)

	tests := []struct {
		format string
		check  func(t *testing.T, s string)
	}{
		{"email", func(t *testing.T, s string) {
			_, err := mail.ParseAddress(s)
			assert.NoError(t, err, "invalid email %q", s)
		}},
		{"url", func(t *testing.T, s string) {
			u, err := url.Parse(s)
			require.NoError(t, err)
			assert.Equal(t, "https", u.Scheme)
		}},
		{"uuid", func(t *testing.T, s string) {
			_, err := uuid.Parse(s)
			assert.NoError(t, err, "invalid uuid %q", s)
		}},
		{"phone", func(t *testing.T, s string) {
			assert.Regexp(t, regexp.MustCompile(`^\+1-\d{3}-\d{3}-\d{4}$`), s)
		}},
		{"date", func(t *testing.T, s string) {
			assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), s)
		}},
		{"datetime", func(t *testing.T, s string) {
			assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`), s)
		}},
		{"sentence", func(t *testing.T, s string) {
			assert.Regexp(t, regexp.MustCompile(`^[A-Z].*\.$`), s)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			value, err := g.Generate(schema.FieldDefinition{Kind: schema.KindString, Format: tt.format})
			require.NoError(t, err)
			tt.check(t, value.(string))
		})
	}
}

func TestGenerateArrayExactLength(t *testing.T) {
	g := testGenerator(6)
	field := schema.FieldDefinition{
		Kind:  schema.KindArray,
		Min:   schema.Float(2),
		Max:   schema.Float(2),
		Items: &schema.FieldDefinition{Kind: schema.KindInteger},
	}

	for i := 0; i < 100; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		assert.Len(t, value, 2)
	}
}

func TestGenerateEnum(t *testing.T) {
	g := testGenerator(7)
	field := schema.FieldDefinition{Kind: schema.KindEnum, Values: []string{"a", "b", "c"}}

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		value, err := g.Generate(field)
		require.NoError(t, err)
		seen[value.(string)] = true
	}
	assert.Len(t, seen, 3, "all enum values should appear across 300 draws")
}

func TestGenerateEnumEmptyValuesIsViolation(t *testing.T) {
	g := testGenerator(8)
	_, err := g.Generate(schema.FieldDefinition{Name: "status", Kind: schema.KindEnum})
	var violation *schema.StructuralViolation
	require.ErrorAs(t, err, &violation)
}

func TestGenerateArrayWithoutItemsIsViolation(t *testing.T) {
	g := testGenerator(9)
	_, err := g.Generate(schema.FieldDefinition{Name: "tags", Kind: schema.KindArray})
	var violation *schema.StructuralViolation
	require.ErrorAs(t, err, &violation)
}

func TestGenerateObject(t *testing.T) {
	g := testGenerator(10)
	field := schema.FieldDefinition{
		Kind: schema.KindObject,
		Properties: map[string]schema.FieldDefinition{
			"city": {Kind: schema.KindString},
			"zip":  {Kind: schema.KindInteger},
		},
	}

	value, err := g.Generate(field)
	require.NoError(t, err)
	obj := value.(map[string]any)
	assert.Contains(t, obj, "city")
	assert.Contains(t, obj, "zip")
}

func TestGenerateComposites(t *testing.T) {
	g := testGenerator(11)

	tests := []struct {
		format   string
		wantKeys []string
	}{
		{"address", []string{"street", "city", "state", "zipCode", "country"}},
		{"person", []string{"firstName", "lastName", "email", "phone", "age"}},
		{"company", []string{"name", "industry", "employees", "website"}},
		{"product", []string{"name", "sku", "price", "category"}},
		{"transaction", []string{"id", "amount", "currency", "timestamp", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			value, err := g.Generate(schema.FieldDefinition{Kind: schema.KindComposite, Format: tt.format})
			require.NoError(t, err)
			obj := value.(map[string]any)
			for _, key := range tt.wantKeys {
				assert.Contains(t, obj, key)
			}
		})
	}
}

func TestGenerateReference(t *testing.T) {
	g := testGenerator(12)

	value, err := g.Generate(schema.FieldDefinition{Kind: schema.KindReference, Default: "user-7"})
	require.NoError(t, err)
	assert.Equal(t, "user-7", value)

	value, err = g.Generate(schema.FieldDefinition{Kind: schema.KindReference})
	require.NoError(t, err)
	_, err = uuid.Parse(value.(string))
	assert.NoError(t, err)
}

func TestGenerateUnknownKindFallsBackToString(t *testing.T) {
	g := testGenerator(13)
	value, err := g.Generate(schema.FieldDefinition{Kind: schema.Kind("mystery")})
	require.NoError(t, err)
	_, ok := value.(string)
	assert.True(t, ok)
}

func TestGenerateBoolean(t *testing.T) {
	g := testGenerator(14)
	seen := map[bool]bool{}
	for i := 0; i < 100; i++ {
		value, err := g.Generate(schema.FieldDefinition{Kind: schema.KindBoolean})
		require.NoError(t, err)
		seen[value.(bool)] = true
	}
	assert.Len(t, seen, 2)
}
