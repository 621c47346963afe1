package practice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/llm"
)

// Config controls the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects that question.
	Validators []Validator

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&MathCheckValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.4,
	}
}

// LLMGenerator implements Generator with one engine call per request.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      zerolog.Logger
}

// New creates an LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, log zerolog.Logger) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

// practiceOutput is the raw engine response before validation.
type practiceOutput struct {
	Questions []struct {
		Question    string   `json:"question"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
		Difficulty  string   `json:"difficulty"`
		SkillTags   []string `json:"skill_tags"`
	} `json:"questions"`
}

// Generate produces the requested questions, dropping any that fail
// validation. NumQuestions outside 1..10 is the caller's bug and
// returns an error before any engine call.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) ([]Question, error) {
	if input.NumQuestions < 1 || input.NumQuestions > 10 {
		return nil, fmt.Errorf("num_questions must be between 1 and 10, got %d", input.NumQuestions)
	}

	ctx = llm.WithPurpose(ctx, "practice-gen")

	req := llm.Request{
		System: practiceSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPracticeMessage(input)},
		},
		Schema:      PracticeSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("practice generation failed: %w", err)
	}

	var raw practiceOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse practice response: %w", err)
	}

	out := make([]Question, 0, len(raw.Questions))
	for _, rq := range raw.Questions {
		q := Question{
			ID:          len(out) + 1,
			Text:        rq.Question,
			Answer:      rq.Answer,
			Explanation: rq.Explanation,
			Difficulty:  homework.Difficulty(rq.Difficulty),
			SkillTags:   rq.SkillTags,
		}
		if verr := g.validate(&q, input); verr != nil {
			g.log.Warn().
				Str("validator", verr.Validator).
				Str("reason", verr.Message).
				Msg("dropping generated question")
			continue
		}
		out = append(out, q)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no generated question survived validation")
	}
	if len(out) > input.NumQuestions {
		out = out[:input.NumQuestions]
	}
	return out, nil
}

func (g *LLMGenerator) validate(q *Question, input GenerateInput) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return verr
		}
	}
	return nil
}
