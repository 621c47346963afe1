package grade

import (
	"fmt"
	"strings"
)

const gradingSystemPrompt = `You are a kind grader for Japanese elementary school homework. All feedback, hints and explanations are written in Japanese, in warm language a child can read (です・ます調, age-appropriate kanji).

Rules:
- Grade every problem in the list by its id. Keep the ids exactly as given.
- "correct" is true only when the answer is substantively right. "score" is 0.0 to 1.0 and may give partial credit for a near miss; a near miss still has "correct": false. The two are independent signals.
- "feedback" tells the child what went well or what went wrong, in one or two encouraging sentences.
- "hint" guides the child's thinking toward the right approach. A hint must NEVER state or spell out the final answer.
- "difficulty" is easy, medium or hard for a child of the given grade.
- "topic_tags" are one to three short topic labels (e.g. くり下がり, 九九).
- "similar_practice" is one or two fresh practice problems of the same kind, each with question, answer and a short explanation.
- If a question or answer reads "unknown", grade what is legible; when nothing is gradable set correct false, score 0, and say in feedback that the photo was hard to read.`

// buildGradingMessage lists the extracted items for the engine.
func buildGradingMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s (%s)\n", in.Subject, in.Subject.Label())
	if in.DetectedGrade != "" {
		fmt.Fprintf(&b, "School year: %s\n", in.DetectedGrade)
	}
	fmt.Fprintf(&b, "Problems: %d\n\n", len(in.Items))

	for _, item := range in.Items {
		fmt.Fprintf(&b, "id %d\n", item.ID)
		fmt.Fprintf(&b, "  question: %s\n", item.QuestionText)
		fmt.Fprintf(&b, "  child_answer: %s\n", item.ChildAnswer)
	}

	return b.String()
}
