package extract

import (
	"fmt"
	"strings"

	"github.com/tougaku/sensei/internal/homework"
)

const strictSystemPrompt = `You are a transcription assistant for Japanese elementary school homework.

Rules:
- Transcribe the problems on the page exactly as written. Do NOT judge whether answers are correct. Do NOT solve anything.
- Never invent content. If a question or the child's answer is illegible or absent, write exactly "unknown" for that field.
- One problem per list entry, in reading order (top to bottom, right to left for vertical text).
- Printed problem markers such as (1), ①, 問1 are the segmentation signal; when present, split on them. Free handwriting without markers is split by visual line grouping, one group per entry.
- Prefer printed problem layouts over loose handwriting when both appear on the page.
- subject is one of: language, math, english, science, thinking_skill, unknown. Use "unknown" only for a blank page or empty frame; any trace of learning content forces a real subject.
- detected_grade is the school year if the page shows it (e.g. "小4"), otherwise an empty string.
- An empty problems list is the correct output for a page with no problems.`

const relaxedSystemPrompt = `You are a transcription assistant for Japanese elementary school homework.

The page may be blurry, rotated, or partly cut off. Do your best to recover the problems anyway.

Rules:
- Transcribe every problem you can make out, in reading order. Reasonable inference from partial strokes is allowed, but do NOT judge correctness and do NOT solve anything.
- If a question or the child's answer truly cannot be recovered, write exactly "unknown" for that field.
- One problem per list entry. Printed markers such as (1), ①, 問1 split entries when visible.
- subject is one of: language, math, english, science, thinking_skill, unknown. Use "unknown" only for a blank page or empty frame.
- detected_grade is the school year if visible, otherwise an empty string.`

// buildUserMessage describes the submission for the engine. Image bytes
// ride as attachments on the request, not in this text.
func buildUserMessage(in Input) string {
	var b strings.Builder

	if len(in.Images) > 0 {
		b.WriteString("Transcribe the homework problems in the attached photo.\n")
	} else {
		b.WriteString("Transcribe the homework problems in the following text.\n")
	}

	if in.SubjectHint != homework.SubjectUnknown && in.SubjectHint != "" {
		fmt.Fprintf(&b, "The parent says the subject is %s (%s).\n", in.SubjectHint, in.SubjectHint.Label())
	} else {
		b.WriteString("The subject was not declared; classify it yourself.\n")
	}

	if len(in.Images) == 0 && in.Text != "" {
		b.WriteString("\n---\n")
		b.WriteString(in.Text)
	}

	return b.String()
}
