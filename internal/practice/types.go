// Package practice generates drill questions on demand: a parent asks
// for N fresh problems for a grade, subject and optional skill focus.
// Every generated question passes a validator chain before it reaches
// the client; questions that fail are dropped rather than shown.
package practice

import (
	"context"

	"github.com/tougaku/sensei/internal/homework"
)

// Question is one generated practice problem ready for display.
type Question struct {
	// ID is the 1-based position within the generated set.
	ID int `json:"id"`

	// Text is the question prompt, in Japanese a child of the target
	// grade can read.
	Text string `json:"question"`

	// Answer is the correct answer as a string.
	Answer string `json:"answer"`

	// Explanation walks through how to think about the problem,
	// step by step.
	Explanation string `json:"explanation"`

	// Difficulty is the generator's self-assessment.
	Difficulty homework.Difficulty `json:"difficulty,omitempty"`

	// SkillTags label the skills exercised, e.g. 推理, 条件整理.
	SkillTags []string `json:"skill_tags,omitempty"`
}

// GenerateInput holds the request context for one generation call.
type GenerateInput struct {
	// Grade is the school year, e.g. 小3.
	Grade string

	// Subject is the requested subject.
	Subject homework.Subject

	// NumQuestions is how many problems to produce (1 to 10).
	NumQuestions int

	// SkillFocus optionally narrows the problem type, e.g. 推理パズル,
	// 図形, 文章題. Empty means the generator's default for the subject.
	SkillFocus string
}

// Generator produces practice questions using the grading engine.
type Generator interface {
	// Generate produces up to NumQuestions validated questions.
	// Questions failing validation are dropped; an error is returned
	// only when the engine call fails or nothing valid survives.
	Generate(ctx context.Context, input GenerateInput) ([]Question, error)
}

// Validator checks a generated question. Implementations are stateless
// and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages and logging.
	Name() string

	// Validate returns nil when the question passes.
	Validate(q *Question, input GenerateInput) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return "validator " + e.Validator + ": " + e.Message
}
