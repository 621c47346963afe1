package practice

import (
	"fmt"

	"github.com/tougaku/sensei/internal/arith"
	"github.com/tougaku/sensei/internal/homework"
)

// MathCheckValidator independently recomputes the answer when the
// question text is pure arithmetic. Word problems and non-math
// subjects pass through silently; a computable question with a wrong
// claimed answer is rejected. The engine occasionally publishes a
// drill whose own answer key is wrong, which is worse than no drill.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q *Question, input GenerateInput) *ValidationError {
	if input.Subject != homework.SubjectMath {
		return nil
	}
	expr, ok := arith.ExtractExpression(q.Text)
	if !ok {
		return nil
	}
	canonical, ok := arith.Eval(expr)
	if !ok {
		return nil
	}
	claimed, ok := arith.ParseValue(q.Answer)
	if !ok || claimed.Cmp(canonical) != 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %s but the answer key says %q", arith.Render(canonical), q.Answer),
		}
	}
	return nil
}
