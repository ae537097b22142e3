package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, geminiModels), tt.input)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"})
	assert.Error(t, err)
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(testQuizSchema().Definition)

	require.Equal(t, genai.Type("OBJECT"), schema.Type)
	require.Contains(t, schema.Properties, "questions")

	questions := schema.Properties["questions"]
	assert.Equal(t, genai.Type("ARRAY"), questions.Type)
	require.NotNil(t, questions.Items)
	assert.Equal(t, genai.Type("OBJECT"), questions.Items.Type)
	assert.Equal(t, genai.Type("STRING"), questions.Items.Properties["question"].Type)
	assert.ElementsMatch(t, []string{"question", "answer"}, questions.Items.Required)
	assert.Equal(t, []string{"questions"}, schema.Required)
}

func TestBuildGeminiSchema_Enum(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "string",
		"enum": []any{"correct", "partial", "incorrect"},
	})
	assert.Equal(t, genai.Type("STRING"), schema.Type)
	assert.Len(t, schema.Enum, 3)
}

func TestMapGeminiType(t *testing.T) {
	assert.Equal(t, genai.Type("INTEGER"), mapGeminiType("integer"))
	assert.Equal(t, genai.Type("BOOLEAN"), mapGeminiType("boolean"))
	assert.Equal(t, genai.Type("NUMBER"), mapGeminiType("number"))
}
