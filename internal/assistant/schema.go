package assistant

import "github.com/abhisek/docchat/internal/llm"

// QuizSchema defines the JSON schema for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "document-quiz",
	Description: "Logic-based questions about a document, each with a reference answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "Exactly three questions requiring inference from the document",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "A question that requires reasoning over the document",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer, supported by the document",
						},
					},
					"required":             []any{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
