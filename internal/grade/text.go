package grade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/llm"
)

// TextResult is the verdict for a single typed-in question and answer,
// the shape the text endpoint returns.
type TextResult struct {
	Correct              bool                `json:"correct"`
	Score                float64             `json:"score"`
	CorrectAnswerExample string              `json:"correct_answer_example"`
	FeedbackMessage      string              `json:"feedback_message"`
	Hint                 string              `json:"hint"`
	Difficulty           homework.Difficulty `json:"difficulty,omitempty"`
	TopicTags            []string            `json:"topic_tags,omitempty"`
	ErrorType            homework.ErrorType  `json:"error_type,omitempty"`

	// Mock marks a degraded placeholder verdict.
	Mock bool `json:"mock,omitempty"`
}

// TextInput is one typed-in question/answer pair to grade.
type TextInput struct {
	Grade        string
	Subject      homework.Subject
	QuestionText string
	ChildAnswer  string
}

// textSchema constrains the single-item grading response.
var textSchema = &llm.Schema{
	Name:        "homework-text-grading",
	Description: "Verdict for a single typed-in homework answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{"type": "boolean"},
			"score": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 1,
			},
			"correct_answer_example": map[string]any{
				"type":        "string",
				"description": "A textbook-level model answer",
			},
			"feedback_message": map[string]any{
				"type":        "string",
				"description": "Where the child did well or stumbled, in kind Japanese",
			},
			"hint": map[string]any{
				"type":        "string",
				"description": "How to think about it next; must not state the answer",
			},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"easy", "medium", "hard"},
			},
			"topic_tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"correct", "score", "correct_answer_example", "feedback_message", "hint", "difficulty", "topic_tags"},
		"additionalProperties": false,
	},
}

const textSystemPrompt = `You are a kind teacher for Japanese elementary school children, checking one homework answer. All output prose (feedback, hint, model answer, tags) is in Japanese a child of the given grade can read.

Rules:
- Judge whether the child's answer is substantively correct. "correct" is true when it is broadly right; false when an important part is wrong.
- "score" is 0.0 to 1.0 with partial credit for near misses, independent of "correct".
- "feedback_message" explains gently where the child did well or stumbled.
- "hint" shows how to think about it next and must NEVER state the final answer.
- "correct_answer_example" is one textbook-level model answer.
- "topic_tags" has two to four Japanese keywords (e.g. かけ算, 文章題).`

// GradeText judges one typed question/answer pair. The same arithmetic
// cross-check as the image path applies when the subject is math.
func (g *LLMGrader) GradeText(ctx context.Context, in TextInput) (*TextResult, error) {
	ctx = llm.WithPurpose(ctx, "grade-text")

	req := llm.Request{
		System: textSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTextMessage(in)},
		},
		Schema:      textSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("grading call failed: %w", err)
	}

	var res TextResult
	if err := json.Unmarshal(resp.Content, &res); err != nil {
		return nil, fmt.Errorf("failed to parse grading response: %w", err)
	}
	res.Score = homework.ClampScore(res.Score)

	if in.Subject == homework.SubjectMath {
		item := homework.GradedItem{
			ID:           1,
			QuestionText: in.QuestionText,
			ChildAnswer:  in.ChildAnswer,
			Correct:      res.Correct,
			Score:        res.Score,
			Feedback:     res.FeedbackMessage,
			Hint:         res.Hint,
		}
		CrossCheck(&item)
		res.Correct = item.Correct
		res.Score = item.Score
		res.FeedbackMessage = item.Feedback
		res.Hint = item.Hint
		res.ErrorType = item.ErrorType
	}

	return &res, nil
}

func buildTextMessage(in TextInput) string {
	return fmt.Sprintf(
		"Grade: %s\nSubject: %s (%s)\n\nQuestion:\n%s\n\nChild's answer:\n%s\n",
		in.Grade, in.Subject, in.Subject.Label(), in.QuestionText, in.ChildAnswer,
	)
}
