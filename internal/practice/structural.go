package practice

import (
	"fmt"
	"unicode/utf8"

	"github.com/tougaku/sensei/internal/homework"
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ GenerateInput) *ValidationError {
	if q.Text == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question is empty",
		}
	}
	if utf8.RuneCountInString(q.Text) > 500 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question exceeds 500 characters",
		}
	}
	if q.Answer == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "answer is empty",
		}
	}
	if q.Explanation == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "explanation is empty",
		}
	}
	if utf8.RuneCountInString(q.Explanation) > 1000 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "explanation exceeds 1000 characters",
		}
	}
	switch q.Difficulty {
	case homework.DifficultyEasy, homework.DifficultyMedium, homework.DifficultyHard:
	default:
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("difficulty must be easy, medium or hard, got %q", q.Difficulty),
		}
	}
	return nil
}
