package pipeline

import (
	"github.com/tougaku/sensei/internal/grade"
	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/practice"
)

// DegradedImageResult is the terminal placeholder for the image flow:
// a fixed, schema-valid two-problem worksheet. Mock tells the client
// to offer a retry instead of presenting the grades as real.
func DegradedImageResult(hint homework.Subject) *homework.GradingResult {
	subject := homework.SubjectMath
	if hint != homework.SubjectUnknown && hint != "" {
		subject = hint
	}
	return &homework.GradingResult{
		Subject:       subject,
		DetectedGrade: "小4",
		Mock:          true,
		Problems: []homework.GradedItem{
			{
				ID:           1,
				QuestionText: "3+4=いくつですか？",
				ChildAnswer:  "7",
				Correct:      true,
				Score:        1.0,
				Feedback:     "とてもよくできました！このレベルはばっちりです。",
				Hint:         "次は2けたの足し算にもチャレンジしてみましょう。",
				SimilarPractice: []homework.SimilarPractice{
					{
						Question:    "5+6=？",
						Answer:      "11",
						Explanation: "一のくらい 5 と 6 をたすと 11 になります。",
					},
				},
			},
			{
				ID:           2,
				QuestionText: "12-5=？",
				ChildAnswer:  "4",
				Correct:      false,
				Score:        0.0,
				Feedback:     "引き算のときに、10をこえるところでつまずいているようです。",
				Hint:         "12 を 10 と 2 に分けて考えると分かりやすくなります。",
				SimilarPractice: []homework.SimilarPractice{
					{
						Question:    "13-5=？",
						Answer:      "8",
						Explanation: "10-5=5 と、残りの 3 をたして 8 になります。",
					},
				},
			},
		},
	}
}

// DegradedTextResult is the terminal placeholder for the text flow.
func DegradedTextResult() *grade.TextResult {
	return &grade.TextResult{
		Correct:              false,
		Score:                0.0,
		CorrectAnswerExample: "",
		FeedbackMessage:      "いまは採点ができませんでした。少し時間をおいて、もう一度ためしてみてください。",
		Hint:                 "もう一度おくると、きちんと採点できることがあります。",
		Mock:                 true,
	}
}

// DegradedPracticeSet is the terminal placeholder for the practice
// flow: two fixed drill problems.
func DegradedPracticeSet() []practice.Question {
	return []practice.Question{
		{
			ID:          1,
			Text:        "13-5=？",
			Answer:      "8",
			Explanation: "10-5=5 と、残りの 3 をたして 8 になります。",
			Difficulty:  homework.DifficultyEasy,
			SkillTags:   []string{"ひき算", "くり下がり"},
		},
		{
			ID:          2,
			Text:        "5+6=？",
			Answer:      "11",
			Explanation: "一のくらい 5 と 6 をたすと 11 になります。",
			Difficulty:  homework.DifficultyEasy,
			SkillTags:   []string{"たし算"},
		},
	}
}
