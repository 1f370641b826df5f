package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreSchema() *OutputSchema {
	return &OutputSchema{
		Name: "match_result",
		Fields: []Field{
			{Name: "score", Type: TypeNumber, Required: true},
			{Name: "band", Type: TypeString, Required: true,
				Enum: []string{"strong_match", "good_match", "weak_match", "poor_match"}},
			{Name: "matched_skills", Type: TypeArray, Required: true,
				Items: &Field{Type: TypeString}},
			{Name: "notes", Type: TypeString},
		},
	}
}

func TestDocument_Shape(t *testing.T) {
	doc := scoreSchema().Document()

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.ElementsMatch(t, []string{"score", "band", "matched_skills"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "notes")
	band := props["band"].(map[string]any)
	assert.Len(t, band["enum"], 4)
}

func TestDocument_NestedObjectArray(t *testing.T) {
	schema := &OutputSchema{
		Name: "bridge_skills",
		Fields: []Field{
			{Name: "skills", Type: TypeArray, Required: true, MinItems: 3, MaxItems: 5,
				Items: &Field{Type: TypeObject, Properties: []Field{
					{Name: "skill", Type: TypeString, Required: true},
					{Name: "evidence", Type: TypeString, Required: true},
				}}},
		},
	}
	doc := schema.Document()

	skills := doc["properties"].(map[string]any)["skills"].(map[string]any)
	assert.Equal(t, 3, skills["minItems"])
	assert.Equal(t, 5, skills["maxItems"])

	items := skills["items"].(map[string]any)
	assert.Equal(t, false, items["additionalProperties"])
	assert.ElementsMatch(t, []string{"skill", "evidence"}, items["required"])
}

func TestCompile_RejectsEmptySchemas(t *testing.T) {
	_, err := Compile(&OutputSchema{Name: "empty"})
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)

	_, err = Compile(&OutputSchema{Fields: []Field{{Name: "x", Type: TypeString}}})
	assert.ErrorAs(t, err, &loadErr)
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(&OutputSchema{Name: "broken"})
	})
	assert.NotPanics(t, func() {
		MustCompile(scoreSchema())
	})
}

func TestValidate_AcceptsConformingDocument(t *testing.T) {
	compiled := MustCompile(scoreSchema())

	err := compiled.Validate([]byte(`{
		"score": 85,
		"band": "strong_match",
		"matched_skills": ["Python", "React"]
	}`))
	assert.NoError(t, err)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	compiled := MustCompile(scoreSchema())

	err := compiled.Validate([]byte(`{"score": 85, "band": "strong_match"}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidate_RejectsExtraKeys(t *testing.T) {
	compiled := MustCompile(scoreSchema())

	err := compiled.Validate([]byte(`{
		"score": 50,
		"band": "weak_match",
		"matched_skills": [],
		"surprise": true
	}`))
	assert.Error(t, err)
}

func TestValidate_RejectsEnumViolation(t *testing.T) {
	compiled := MustCompile(scoreSchema())

	err := compiled.Validate([]byte(`{
		"score": 50,
		"band": "excellent",
		"matched_skills": []
	}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidate_MalformedJSON(t *testing.T) {
	compiled := MustCompile(scoreSchema())
	assert.Error(t, compiled.Validate([]byte(`{not json`)))
}
