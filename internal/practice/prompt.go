package practice

import (
	"fmt"
	"strings"

	"github.com/tougaku/sensei/internal/homework"
)

const practiceSystemPrompt = `You are a professional author of drill workbooks for Japanese elementary school children. Everything the child reads (questions, answers, explanations, tags) is written in Japanese appropriate for the given grade.

Rules:
- Produce exactly the requested number of problems for the given grade, subject and skill focus.
- Playful, game-like settings are welcome, but each problem must state its rules clearly and keep the text short.
- Answers must be correct. For arithmetic, use plain notation: / for fractions, × or * for multiplication.
- Explanations walk through how to think about the problem, step by step, not just the final answer.
- "difficulty" is easy, medium or hard relative to the given grade.
- "skill_tags" has one to three short Japanese labels, e.g. 推理, 条件整理, 図形.
- Problems within one set must not repeat each other.`

// buildPracticeMessage describes the request for the engine.
func buildPracticeMessage(input GenerateInput) string {
	focus := input.SkillFocus
	if focus == "" {
		focus = defaultFocus(input.Subject)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Grade: %s\n", input.Grade)
	fmt.Fprintf(&b, "Subject: %s (%s)\n", input.Subject, input.Subject.Label())
	fmt.Fprintf(&b, "Skill focus: %s\n", focus)
	fmt.Fprintf(&b, "Number of problems: %d\n", input.NumQuestions)
	return b.String()
}

// defaultFocus picks a sensible focus per subject when the caller left
// it blank.
func defaultFocus(s homework.Subject) string {
	switch s {
	case homework.SubjectMath:
		return "計算と文章題"
	case homework.SubjectLanguage:
		return "漢字と読み取り"
	case homework.SubjectEnglish:
		return "かんたんな英単語"
	case homework.SubjectScience:
		return "身の回りの理科"
	default:
		return "思考力パズル"
	}
}
