package grade

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/tougaku/sensei/internal/arith"
	"github.com/tougaku/sensei/internal/homework"
)

// CrossCheck replaces the engine's correctness verdict with an exact
// local computation when the item's question is pure arithmetic. The
// engine keeps its prose when it agreed with the computation; when it
// disagreed, the verdict, score and feedback are rewritten so the
// child never sees a confidently wrong grade.
//
// Non-arithmetic items (word problems, illegible fields) pass through
// untouched, as does any item whose answer does not parse as a number:
// a parse failure is not evidence of incorrectness, the engine's
// judgment stands.
func CrossCheck(item *homework.GradedItem) {
	expr, ok := arith.ExtractExpression(item.QuestionText)
	if !ok {
		return
	}
	canonical, ok := arith.Eval(expr)
	if !ok {
		return
	}
	if item.ChildAnswer == homework.UnknownField {
		return
	}

	answer, ok := arith.ParseValue(item.ChildAnswer)
	if !ok {
		return
	}
	correct := answer.Cmp(canonical) == 0
	want := arith.Render(canonical)

	if correct {
		if !item.Correct {
			item.Feedback = "よくできました！答えは合っています。"
			item.Hint = ""
		}
		item.Correct = true
		item.Score = 1.0
		item.ErrorType = homework.ErrorNone
		return
	}

	errType := classifyError(expr, canonical, answer)
	if item.Correct {
		item.Feedback = fmt.Sprintf("おしい！正しい答えは %s です。もう一度たしかめてみましょう。", want)
		item.Hint = hintFor(errType)
	}
	item.Correct = false
	item.Score = 0.0
	item.ErrorType = errType
}

// classifyError buckets a wrong arithmetic answer by simple rules.
// Rule-based beats asking the engine: the same mistake always gets the
// same label.
func classifyError(expr string, canonical, answer *big.Rat) homework.ErrorType {
	hasMul := strings.ContainsRune(expr, '*')
	hasFraction := containsFraction(expr) || !answer.IsInt() || !canonical.IsInt()
	hasDiv := hasDivision(expr)

	// A miss of exactly ten on integer addition or subtraction is the
	// classic carry/borrow slip.
	if !hasMul && !hasDiv && !hasFraction && answer.IsInt() && canonical.IsInt() {
		diff := new(big.Rat).Sub(answer, canonical)
		if diff.Abs(diff).Cmp(big.NewRat(10, 1)) == 0 {
			return homework.ErrorCarryBorrow
		}
	}
	if hasMul {
		return homework.ErrorMultiplicationTable
	}
	if hasFraction {
		return homework.ErrorFraction
	}
	return homework.ErrorGeneric
}

// containsFraction reports whether the expression writes any number as
// a slash fraction (glued "a/b", as opposed to spaced division).
func containsFraction(expr string) bool {
	for i := 0; i < len(expr); i++ {
		if expr[i] != '/' {
			continue
		}
		if i > 0 && isDigit(expr[i-1]) && i+1 < len(expr) && isDigit(expr[i+1]) {
			return true
		}
	}
	return false
}

// hasDivision reports a slash used as a division operator (spaced, not
// glued between digits).
func hasDivision(expr string) bool {
	for i := 0; i < len(expr); i++ {
		if expr[i] != '/' {
			continue
		}
		glued := i > 0 && isDigit(expr[i-1]) && i+1 < len(expr) && isDigit(expr[i+1])
		if !glued {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// hintFor gives a deterministic nudge per error class, used when the
// cross-check had to discard the engine's prose.
func hintFor(t homework.ErrorType) string {
	switch t {
	case homework.ErrorCarryBorrow:
		return "くり上がり・くり下がりに気をつけて、10のまとまりで考えてみましょう。"
	case homework.ErrorMultiplicationTable:
		return "九九の表をもう一度たしかめてみましょう。"
	case homework.ErrorFraction:
		return "分母と分子をそろえてから計算してみましょう。"
	default:
		return "もう一度ゆっくり計算してみましょう。"
	}
}
