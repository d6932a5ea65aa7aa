package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthrec/synthrec/internal/schema"
)

func articlePaths() map[string]any {
	return map[string]any{
		"paths": map[string]any{
			"_id": map[string]any{"instance": "ObjectID"},
			"__v": map[string]any{"instance": "Number"},
			"title": map[string]any{
				"instance": "String",
				"options": map[string]any{
					"required":  true,
					"minlength": []any{5.0, "too short"},
					"maxlength": 120.0,
				},
			},
			"status": map[string]any{
				"instance": "String",
				"options": map[string]any{
					"enum":    []any{"draft", "published"},
					"default": "draft",
				},
			},
			"slug": map[string]any{
				"instance": "String",
				"options": map[string]any{
					"unique": true,
					"match":  []any{"^[a-z0-9-]+$", "invalid slug"},
				},
			},
			"views": map[string]any{
				"instance": "Number",
				"options":  map[string]any{"min": 0.0, "default": 0.0},
			},
			"publishedAt": map[string]any{"instance": "Date"},
			"tags": map[string]any{
				"instance": "Array",
				"caster":   map[string]any{"instance": "String"},
			},
			"comments": map[string]any{
				"instance": "Array",
				"schema": map[string]any{
					"paths": map[string]any{
						"author": map[string]any{"instance": "String"},
						"body":   map[string]any{"instance": "String"},
					},
				},
			},
			"author": map[string]any{
				"instance": "Embedded",
				"schema": map[string]any{
					"paths": map[string]any{
						"name": map[string]any{"instance": "String"},
					},
				},
			},
		},
	}
}

func TestParseDocument(t *testing.T) {
	s, err := ParseDocument(articlePaths())
	require.NoError(t, err)

	// __v is internal bookkeeping; _id is the identity exception.
	assert.NotContains(t, s.Fields, "__v")
	require.Contains(t, s.Fields, "_id")
	assert.Equal(t, schema.KindReference, s.Fields["_id"].Kind)

	title := s.Fields["title"]
	assert.Equal(t, schema.KindString, title.Kind)
	assert.True(t, title.Required)
	require.NotNil(t, title.Min)
	assert.Equal(t, 5.0, *title.Min)
	require.NotNil(t, title.Max)
	assert.Equal(t, 120.0, *title.Max)

	status := s.Fields["status"]
	assert.Equal(t, schema.KindEnum, status.Kind)
	assert.Equal(t, []string{"draft", "published"}, status.Values)
	assert.Equal(t, "draft", status.Default)

	slug := s.Fields["slug"]
	assert.True(t, slug.Unique)
	assert.Equal(t, "^[a-z0-9-]+$", slug.Pattern)

	views := s.Fields["views"]
	assert.Equal(t, schema.KindNumber, views.Kind)
	require.NotNil(t, views.Min)
	assert.Equal(t, 0.0, *views.Min)

	publishedAt := s.Fields["publishedAt"]
	assert.Equal(t, schema.KindString, publishedAt.Kind)
	assert.Equal(t, "datetime", publishedAt.Format)

	tags := s.Fields["tags"]
	require.Equal(t, schema.KindArray, tags.Kind)
	require.NotNil(t, tags.Items)
	assert.Equal(t, schema.KindString, tags.Items.Kind)

	comments := s.Fields["comments"]
	require.Equal(t, schema.KindArray, comments.Kind)
	require.NotNil(t, comments.Items)
	assert.Equal(t, schema.KindObject, comments.Items.Kind)
	assert.Contains(t, comments.Items.Properties, "author")

	author := s.Fields["author"]
	require.Equal(t, schema.KindObject, author.Kind)
	assert.Contains(t, author.Properties, "name")
}

func TestParseDocumentComputedDefaultSkipped(t *testing.T) {
	s, err := ParseDocument(map[string]any{
		"createdAt": map[string]any{
			"instance": "Date",
			"options": map[string]any{
				// A computed default serializes as an object, not a literal.
				"default": map[string]any{"$function": "Date.now"},
			},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, s.Fields["createdAt"].Default)
}

func TestParseDocumentBadInput(t *testing.T) {
	_, err := ParseDocument(42)
	require.Error(t, err)
	var shapeErr *InputShapeError
	require.ErrorAs(t, err, &shapeErr)

	_, err = ParseDocument(map[string]any{"title": "not a descriptor"})
	require.Error(t, err)
	require.ErrorAs(t, err, &shapeErr)
}
