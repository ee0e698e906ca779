package questiongen

import "github.com/abhisek/studyquiz/internal/llm"

// BatchSchema defines the JSON schema for question batch responses.
var BatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of multiple-choice study questions with answers and distractors",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the learner",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The single correct answer, short and unambiguous",
						},
						"distractors": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Three plausible but wrong answers reflecting common misconceptions",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"easy", "medium", "hard"},
							"description": "Difficulty for the target grade",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "Short topic label, e.g. the chapter or concept tested",
						},
					},
					"required":             []any{"question", "answer", "distractors", "difficulty", "category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
