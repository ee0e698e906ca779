package coach

import "github.com/abhisek/studyquiz/internal/llm"

// ReportSchema defines the JSON schema for coaching responses.
var ReportSchema = &llm.Schema{
	Name:        "quiz-coaching",
	Description: "Short, encouraging study feedback for a finished quiz attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One sentence summarising the attempt",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 things the student did well",
			},
			"focus": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 concepts to revisit, based on the wrong answers",
			},
			"actions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 concrete next study steps",
			},
		},
		"required":             []any{"headline", "strengths", "focus", "actions"},
		"additionalProperties": false,
	},
}
