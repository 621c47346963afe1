// Package extract turns a homework submission (photo or raw text) into
// an ordered list of transcribed problems. Extraction transcribes only:
// it never judges correctness and never invents content, so grading can
// trust that every item it sees was actually on the page.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/llm"
)

// Input is one submission to extract problems from.
type Input struct {
	// Images holds the submitted photo(s). Empty for text submissions.
	Images []llm.Image

	// Text is the raw submission text when no image was provided.
	Text string

	// SubjectHint is the caller-declared subject, or SubjectUnknown when
	// the caller asked for auto-detection.
	SubjectHint homework.Subject
}

// Result is the extraction output consumed by the grading stage.
type Result struct {
	Subject       homework.Subject
	DetectedGrade string
	Items         []homework.ExtractedItem
}

// Extractor runs the extraction engine call.
type Extractor struct {
	provider llm.Provider
	config   Config
}

// Config controls the extraction call.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard extraction settings. Temperature
// stays at zero so identical submissions extract identically.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.0,
	}
}

// New creates an Extractor backed by the given provider.
func New(provider llm.Provider, cfg Config) *Extractor {
	return &Extractor{provider: provider, config: cfg}
}

// extractionOutput is the raw engine response before normalization.
type extractionOutput struct {
	Subject       string `json:"subject"`
	DetectedGrade string `json:"detected_grade"`
	Problems      []struct {
		QuestionText string `json:"question_text"`
		ChildAnswer  string `json:"child_answer"`
	} `json:"problems"`
}

// Extract transcribes the submission. With relaxed=false the engine is
// held to strict transcription rules; relaxed=true permits broader
// inference and is used by the fallback ladder after a strict attempt
// came back empty or unreadable.
//
// Zero extracted problems is a valid outcome, not an error.
func (e *Extractor) Extract(ctx context.Context, in Input, relaxed bool) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "extract")

	system := strictSystemPrompt
	if relaxed {
		system = relaxedSystemPrompt
	}

	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in)},
		},
		Images:      in.Images,
		Schema:      ExtractionSchema,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	var raw extractionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return normalize(in, raw), nil
}

// normalize converts the raw engine output into a Result with stable
// sequence IDs and a settled subject.
func normalize(in Input, raw extractionOutput) *Result {
	res := &Result{
		DetectedGrade: raw.DetectedGrade,
		Items:         make([]homework.ExtractedItem, 0, len(raw.Problems)),
	}

	for _, p := range raw.Problems {
		q := strings.TrimSpace(p.QuestionText)
		a := strings.TrimSpace(p.ChildAnswer)
		if q == "" {
			q = homework.UnknownField
		}
		if a == "" {
			a = homework.UnknownField
		}
		// Skip rows where the engine read nothing at all.
		if q == homework.UnknownField && a == homework.UnknownField {
			continue
		}
		res.Items = append(res.Items, homework.ExtractedItem{
			// IDs are reassigned in reading order so downstream code can
			// rely on 1..n regardless of what the engine numbered.
			ID:           len(res.Items) + 1,
			QuestionText: q,
			ChildAnswer:  a,
		})
	}

	res.Subject = settleSubject(in, raw.Subject, res.Items)
	return res
}

// settleSubject picks the final subject: caller hint first, then the
// engine's classification, then the content heuristic over extracted
// text. Unknown survives only when there is truly nothing to classify.
func settleSubject(in Input, engineSubject string, items []homework.ExtractedItem) homework.Subject {
	if in.SubjectHint != homework.SubjectUnknown && in.SubjectHint != "" {
		return in.SubjectHint
	}
	if s, ok := homework.ParseSubject(engineSubject); ok {
		return s
	}

	var b strings.Builder
	b.WriteString(in.Text)
	for _, it := range items {
		b.WriteString(" ")
		if it.QuestionText != homework.UnknownField {
			b.WriteString(it.QuestionText)
		}
		if it.ChildAnswer != homework.UnknownField {
			b.WriteString(it.ChildAnswer)
		}
	}
	return homework.DetectSubject(b.String())
}
