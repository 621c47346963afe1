package practice

import "github.com/tougaku/sensei/internal/llm"

// PracticeSchema defines the JSON schema for practice generation
// responses.
var PracticeSchema = &llm.Schema{
	Name:        "practice-questions",
	Description: "A set of drill questions with answers and explanations",
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
							"description": "The problem text in Japanese, short and clear",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Step-by-step reasoning a child can follow",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"skill_tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"question", "answer", "explanation", "difficulty", "skill_tags"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
