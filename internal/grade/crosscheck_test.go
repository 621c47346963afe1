package grade

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tougaku/sensei/internal/homework"
)

func TestCrossCheck_OverridesWrongEngineVerdict(t *testing.T) {
	// The engine accepted a wrong answer.
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "12-5=？",
		ChildAnswer:  "4",
		Correct:      true,
		Score:        1.0,
		Feedback:     "よくできました！",
	}
	CrossCheck(&item)

	if item.Correct {
		t.Fatal("12-5=7, verdict must flip to incorrect")
	}
	if item.Score != 0.0 {
		t.Fatalf("expected score 0, got %v", item.Score)
	}
	if item.ErrorType != homework.ErrorGeneric {
		t.Fatalf("expected generic, got %q", item.ErrorType)
	}
	if !strings.Contains(item.Feedback, "7") {
		t.Fatalf("rewritten feedback should name the right answer: %q", item.Feedback)
	}
}

func TestCrossCheck_RescuesCorrectAnswer(t *testing.T) {
	// The engine rejected a correct mixed-number answer.
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "3 1/2 + 2 = ?",
		ChildAnswer:  "5 1/2",
		Correct:      false,
		Score:        0.2,
		Feedback:     "まちがっています。",
		Hint:         "もう一度考えてみましょう。",
	}
	CrossCheck(&item)

	if !item.Correct {
		t.Fatal("3 1/2 + 2 = 5 1/2, verdict must flip to correct")
	}
	if item.Score != 1.0 {
		t.Fatalf("expected score 1, got %v", item.Score)
	}
	if item.ErrorType != homework.ErrorNone {
		t.Fatalf("expected no error type, got %q", item.ErrorType)
	}
	if strings.Contains(item.Feedback, "まちがって") {
		t.Fatalf("stale negative feedback survived: %q", item.Feedback)
	}
}

func TestCrossCheck_CarryBorrow(t *testing.T) {
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "23+19=？",
		ChildAnswer:  "52",
		Correct:      false,
		Score:        0.0,
		Feedback:     "おしいですね。",
	}
	CrossCheck(&item)

	if item.ErrorType != homework.ErrorCarryBorrow {
		t.Fatalf("off by exactly ten on addition, expected carry_borrow, got %q", item.ErrorType)
	}
	// Engine already said incorrect, its prose stays.
	if item.Feedback != "おしいですね。" {
		t.Fatalf("agreeing feedback should survive: %q", item.Feedback)
	}
}

func TestCrossCheck_MultiplicationTable(t *testing.T) {
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "6×3=？",
		ChildAnswer:  "15",
		Correct:      true,
		Score:        1.0,
	}
	CrossCheck(&item)

	if item.Correct {
		t.Fatal("6*3=18, verdict must flip")
	}
	if item.ErrorType != homework.ErrorMultiplicationTable {
		t.Fatalf("expected multiplication_table, got %q", item.ErrorType)
	}
}

func TestCrossCheck_FractionError(t *testing.T) {
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "1/2 + 1/4 = ?",
		ChildAnswer:  "2/6",
		Correct:      false,
	}
	CrossCheck(&item)

	if item.ErrorType != homework.ErrorFraction {
		t.Fatalf("expected fraction_error, got %q", item.ErrorType)
	}
}

func TestCrossCheck_DivisionMissOfTenIsNotCarryBorrow(t *testing.T) {
	// Worksheets write division both spaced and unspaced; neither form
	// is a carry slip, and neither is a fraction.
	for _, q := range []string{"30 ÷ 3 = ?", "30÷3=？"} {
		item := homework.GradedItem{
			ID:           1,
			QuestionText: q,
			ChildAnswer:  "20",
			Correct:      false,
		}
		CrossCheck(&item)

		if item.ErrorType == homework.ErrorCarryBorrow {
			t.Fatalf("%s: carry_borrow applies only to addition and subtraction", q)
		}
		if item.ErrorType != homework.ErrorGeneric {
			t.Fatalf("%s: expected generic, got %q", q, item.ErrorType)
		}
	}
}

func TestCrossCheck_WordProblemUntouched(t *testing.T) {
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "りんごが3つ、みかんが4つあります。あわせていくつ？",
		ChildAnswer:  "7",
		Correct:      true,
		Score:        1.0,
		Feedback:     "その通りです！",
	}
	before := item
	CrossCheck(&item)

	if !reflect.DeepEqual(item, before) {
		t.Fatal("word problems must pass through unchanged")
	}
}

func TestCrossCheck_UnknownAnswerUntouched(t *testing.T) {
	item := homework.GradedItem{
		ID:           1,
		QuestionText: "12-5=？",
		ChildAnswer:  homework.UnknownField,
		Correct:      false,
		Score:        0.0,
		Feedback:     "写真がよみとれませんでした。",
	}
	before := item
	CrossCheck(&item)

	if !reflect.DeepEqual(item, before) {
		t.Fatal("unreadable answers are not cross-checked")
	}
}

func TestCrossCheck_UnparseableAnswerDefersToEngine(t *testing.T) {
	// "よん" and "7こ" are answers the verifier cannot read. Failing to
	// parse is not evidence the child is wrong, so the engine's verdict
	// stands either way.
	for _, tc := range []struct {
		answer  string
		correct bool
	}{
		{"よん", true},
		{"7こ", false},
	} {
		item := homework.GradedItem{
			ID:           1,
			QuestionText: "2+2=？",
			ChildAnswer:  tc.answer,
			Correct:      tc.correct,
			Score:        1.0,
			Feedback:     "せんせいが確かめました。",
		}
		before := item
		CrossCheck(&item)

		if !reflect.DeepEqual(item, before) {
			t.Fatalf("answer %q: unverifiable items must pass through unchanged", tc.answer)
		}
	}
}
