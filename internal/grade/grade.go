// Package grade judges extracted problems: correctness, score,
// feedback, hints and similar practice per item. For math items whose
// question parses as a pure arithmetic expression, a local exact
// computation overrides the engine's verdict; the engine is good at
// phrasing feedback and bad at arithmetic honesty.
package grade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/llm"
)

// Grader judges a list of extracted problems.
type Grader interface {
	Grade(ctx context.Context, in Input) ([]homework.GradedItem, error)
}

// Input is one grading request.
type Input struct {
	Items         []homework.ExtractedItem
	Subject       homework.Subject
	DetectedGrade string
}

// Config controls the grading call.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard grading settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.2,
	}
}

// LLMGrader implements Grader with one engine call per submission.
type LLMGrader struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGrader backed by the given provider.
func New(provider llm.Provider, cfg Config) *LLMGrader {
	return &LLMGrader{provider: provider, config: cfg}
}

// gradedOutput is the raw engine response before normalization.
type gradedOutput struct {
	Problems []struct {
		ID              int      `json:"id"`
		Correct         bool     `json:"correct"`
		Score           float64  `json:"score"`
		Feedback        string   `json:"feedback"`
		Hint            string   `json:"hint"`
		Difficulty      string   `json:"difficulty"`
		TopicTags       []string `json:"topic_tags"`
		SimilarPractice []struct {
			Question    string `json:"question"`
			Answer      string `json:"answer"`
			Explanation string `json:"explanation"`
		} `json:"similar_practice"`
	} `json:"problems"`
}

// Grade judges every extracted item. An empty item list returns an
// empty slice without calling the engine.
func (g *LLMGrader) Grade(ctx context.Context, in Input) ([]homework.GradedItem, error) {
	if len(in.Items) == 0 {
		return []homework.GradedItem{}, nil
	}

	ctx = llm.WithPurpose(ctx, "grade")

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradingMessage(in)},
		},
		Schema:      GradingSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("grading call failed: %w", err)
	}

	var raw gradedOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grading response: %w", err)
	}

	return g.merge(in, raw), nil
}

// merge joins the engine verdicts back onto the extracted items by ID,
// clamps scores, and applies the arithmetic cross-check for math.
func (g *LLMGrader) merge(in Input, raw gradedOutput) []homework.GradedItem {
	byID := make(map[int]int, len(raw.Problems))
	for i, p := range raw.Problems {
		byID[p.ID] = i
	}

	out := make([]homework.GradedItem, 0, len(in.Items))
	for _, item := range in.Items {
		graded := homework.GradedItem{
			ID:           item.ID,
			QuestionText: item.QuestionText,
			ChildAnswer:  item.ChildAnswer,
			Feedback:     "この問題は採点できませんでした。",
		}

		if i, ok := byID[item.ID]; ok {
			p := raw.Problems[i]
			graded.Correct = p.Correct
			graded.Score = homework.ClampScore(p.Score)
			graded.Feedback = p.Feedback
			graded.Hint = p.Hint
			graded.Difficulty = homework.Difficulty(p.Difficulty)
			graded.TopicTags = p.TopicTags
			for _, sp := range p.SimilarPractice {
				graded.SimilarPractice = append(graded.SimilarPractice, homework.SimilarPractice{
					Question:    sp.Question,
					Answer:      sp.Answer,
					Explanation: sp.Explanation,
				})
			}
		}

		if in.Subject == homework.SubjectMath {
			CrossCheck(&graded)
		}

		out = append(out, graded)
	}
	return out
}
