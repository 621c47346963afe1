package grade

import "github.com/tougaku/sensei/internal/llm"

// GradingSchema defines the JSON schema for grading responses.
var GradingSchema = &llm.Schema{
	Name:        "homework-grading",
	Description: "Per-problem verdicts for an extracted homework submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "The id of the problem being graded, unchanged",
						},
						"correct": map[string]any{
							"type":        "boolean",
							"description": "True only when the answer is substantively right",
						},
						"score": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "0.0 to 1.0, partial credit allowed independently of correct",
						},
						"feedback": map[string]any{
							"type":        "string",
							"description": "Encouraging Japanese feedback for the child",
						},
						"hint": map[string]any{
							"type":        "string",
							"description": "A nudge toward the right approach; must not reveal the answer",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"topic_tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"similar_practice": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"question":    map[string]any{"type": "string"},
									"answer":      map[string]any{"type": "string"},
									"explanation": map[string]any{"type": "string"},
								},
								"required":             []any{"question", "answer", "explanation"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"id", "correct", "score", "feedback", "hint", "difficulty", "topic_tags", "similar_practice"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"problems"},
		"additionalProperties": false,
	},
}
