package extract

import "github.com/tougaku/sensei/internal/llm"

// ExtractionSchema defines the JSON schema for extraction responses.
var ExtractionSchema = &llm.Schema{
	Name:        "homework-extraction",
	Description: "Problems transcribed from a homework submission, without correctness judgment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subject": map[string]any{
				"type":        "string",
				"enum":        []any{"language", "math", "english", "science", "thinking_skill", "unknown"},
				"description": "Subject of the page. 'unknown' only for a blank page or empty frame.",
			},
			"detected_grade": map[string]any{
				"type":        "string",
				"description": "School year printed on the page (e.g. 小4), or empty when absent",
			},
			"problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question exactly as written, or 'unknown' when illegible",
						},
						"child_answer": map[string]any{
							"type":        "string",
							"description": "The child's written answer exactly as written, or 'unknown' when illegible or blank",
						},
					},
					"required":             []any{"question_text", "child_answer"},
					"additionalProperties": false,
				},
				"description": "Transcribed problems in reading order. Empty when the page has none.",
			},
		},
		"required":             []any{"subject", "detected_grade", "problems"},
		"additionalProperties": false,
	},
}
