package generator

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthrec/synthrec/internal/schema"
)

func userSchema() *schema.Schema {
	return &schema.Schema{
		Title: "users",
		Type:  "object",
		Fields: map[string]schema.FieldDefinition{
			"id":    {Name: "id", Kind: schema.KindInteger, PrimaryKey: true, Min: schema.Float(1), Max: schema.Float(100000)},
			"email": {Name: "email", Kind: schema.KindString, Format: "email"},
			"age":   {Name: "age", Kind: schema.KindInteger, Min: schema.Float(18), Max: schema.Float(90)},
			"role":  {Name: "role", Kind: schema.KindEnum, Values: []string{"admin", "user"}},
		},
	}
}

func seed(v int64) *int64 {
	return &v
}

func TestGenerateRecordsCountAndKeys(t *testing.T) {
	s := userSchema()

	for _, count := range []int{0, 1, 5, 50} {
		records, err := GenerateRecords(s, Options{Count: count})
		require.NoError(t, err)
		require.Len(t, records, count)

		for _, record := range records {
			require.Len(t, record, len(s.Fields))
			for name := range s.Fields {
				assert.Contains(t, record, name)
			}
		}
	}
}

func TestGenerateRecordsDeterministicWithSeed(t *testing.T) {
	s := userSchema()

	first, err := GenerateRecords(s, Options{Count: 5, Seed: seed(42)})
	require.NoError(t, err)
	second, err := GenerateRecords(s, Options{Count: 5, Seed: seed(42)})
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output for identical (schema, seed, count)\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestGenerateRecordsDifferentSeedsDiffer(t *testing.T) {
	s := userSchema()

	first, err := GenerateRecords(s, Options{Count: 5, Seed: seed(1)})
	require.NoError(t, err)
	second, err := GenerateRecords(s, Options{Count: 5, Seed: seed(2)})
	require.NoError(t, err)

	assert.False(t, reflect.DeepEqual(first, second))
}

func TestGenerateRecordsInvalidSchema(t *testing.T) {
	s := &schema.Schema{
		Type:   "object",
		Fields: map[string]schema.FieldDefinition{"tags": {Kind: schema.KindArray}},
	}

	_, err := GenerateRecords(s, Options{Count: 1})
	var violation *schema.StructuralViolation
	require.ErrorAs(t, err, &violation)
}

func TestNormalizeInput(t *testing.T) {
	// Bare name sequence: every field an unconstrained string.
	s, err := NormalizeInput([]string{"one", "two"})
	require.NoError(t, err)
	assert.Len(t, s.Fields, 2)
	assert.Equal(t, schema.KindString, s.Fields["one"].Kind)

	// Fields map.
	s, err = NormalizeInput(map[string]schema.FieldDefinition{
		"n": {Kind: schema.KindNumber},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.KindNumber, s.Fields["n"].Kind)

	// Serialized canonical schema.
	s, err = NormalizeInput(map[string]any{
		"title": "things",
		"fields": map[string]any{
			"id": map[string]any{"kind": "integer"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "things", s.Title)
	assert.Equal(t, schema.KindInteger, s.Fields["id"].Kind)

	_, err = NormalizeInput(42)
	require.Error(t, err)
}

func TestGenerateRelatedOneToMany(t *testing.T) {
	schemas := map[string]*schema.Schema{
		"author": {
			Title: "author",
			Type:  "object",
			Fields: map[string]schema.FieldDefinition{
				"id":   {Name: "id", Kind: schema.KindString, Format: "uuid", PrimaryKey: true},
				"name": {Name: "name", Kind: schema.KindString, Format: "name"},
			},
		},
		"book": {
			Title: "book",
			Type:  "object",
			Fields: map[string]schema.FieldDefinition{
				"id":    {Name: "id", Kind: schema.KindString, Format: "uuid", PrimaryKey: true},
				"title": {Name: "title", Kind: schema.KindString},
			},
		},
	}

	relations := []Relation{
		{From: "author", To: "book", Kind: RelationOneToMany, ForeignKey: "authorId"},
	}
	opts := map[string]Options{
		"author": {Count: 3, Seed: seed(7)},
		"book":   {Count: 5, Seed: seed(8)},
	}

	collections, err := GenerateRelated(schemas, relations, opts)
	require.NoError(t, err)
	require.Len(t, collections["author"], 3)
	require.Len(t, collections["book"], 5)

	authorIDs := map[any]bool{}
	for _, author := range collections["author"] {
		require.NotNil(t, author["id"])
		authorIDs[author["id"]] = true
	}

	for _, book := range collections["book"] {
		fk, ok := book["authorId"]
		require.True(t, ok, "every book must carry an authorId")
		require.NotNil(t, fk)
		assert.True(t, authorIDs[fk], "authorId %v must match some author's id", fk)
	}
}

func TestGenerateRelatedManyToOne(t *testing.T) {
	schemas := map[string]*schema.Schema{
		"order": {
			Title: "order",
			Type:  "object",
			Fields: map[string]schema.FieldDefinition{
				"id": {Name: "id", Kind: schema.KindString, Format: "uuid", PrimaryKey: true},
			},
		},
		"customer": {
			Title: "customer",
			Type:  "object",
			Fields: map[string]schema.FieldDefinition{
				"id": {Name: "id", Kind: schema.KindString, Format: "uuid", PrimaryKey: true},
			},
		},
	}

	relations := []Relation{
		{From: "order", To: "customer", Kind: RelationManyToOne},
	}
	opts := map[string]Options{
		"order":    {Count: 10, Seed: seed(1)},
		"customer": {Count: 4, Seed: seed(2)},
	}

	collections, err := GenerateRelated(schemas, relations, opts)
	require.NoError(t, err)

	customerIDs := map[any]bool{}
	for _, customer := range collections["customer"] {
		customerIDs[customer["id"]] = true
	}

	// Default foreign key for many-to-one names the target: customerId.
	for _, order := range collections["order"] {
		fk, ok := order["customerId"]
		require.True(t, ok, "every order gets a stamped foreign key")
		assert.True(t, customerIDs[fk], "foreign key must reference an existing customer")
	}
}

func TestGenerateRelatedDefaultCount(t *testing.T) {
	schemas := map[string]*schema.Schema{
		"item": {
			Title:  "item",
			Type:   "object",
			Fields: map[string]schema.FieldDefinition{"id": {Kind: schema.KindString, Format: "uuid"}},
		},
	}

	collections, err := GenerateRelated(schemas, nil, nil)
	require.NoError(t, err)
	assert.Len(t, collections["item"], 10)
}
