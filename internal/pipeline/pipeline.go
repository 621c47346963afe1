// Package pipeline runs the per-request evaluation flow and owns the
// never-fail contract: extraction and grading failures degrade to a
// fixed, schema-valid placeholder instead of surfacing as errors. For
// a child-facing tool a confusing error page is worse than an
// obviously-fake result the client can offer to retry.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tougaku/sensei/internal/extract"
	"github.com/tougaku/sensei/internal/grade"
	"github.com/tougaku/sensei/internal/homework"
	"github.com/tougaku/sensei/internal/practice"
)

// State is the per-request position in the degradation ladder.
type State int

const (
	// AttemptPrimary runs the stages with strict instructions.
	AttemptPrimary State = iota

	// AttemptFallback retries the failed stage once, with relaxed
	// instructions where the stage has them.
	AttemptFallback

	// DegradedResponse is terminal: the placeholder result goes out.
	DegradedResponse
)

func (s State) String() string {
	switch s {
	case AttemptPrimary:
		return "attempt_primary"
	case AttemptFallback:
		return "attempt_fallback"
	default:
		return "degraded_response"
	}
}

// Extractor is the extraction stage as the pipeline sees it.
type Extractor interface {
	Extract(ctx context.Context, in extract.Input, relaxed bool) (*extract.Result, error)
}

// Grader is the grading stage as the pipeline sees it.
type Grader interface {
	Grade(ctx context.Context, in grade.Input) ([]homework.GradedItem, error)
	GradeText(ctx context.Context, in grade.TextInput) (*grade.TextResult, error)
}

// Pipeline wires the stages together for one service instance. It is
// stateless across requests; the State value lives on the stack of a
// single call.
type Pipeline struct {
	extractor Extractor
	grader    Grader
	generator practice.Generator
	log       zerolog.Logger

	// dummy short-circuits every flow to its placeholder, the original
	// MVP behavior, selected by engine.mode=dummy.
	dummy bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDummyMode makes every flow return its placeholder without
// touching the engine.
func WithDummyMode(on bool) Option {
	return func(p *Pipeline) { p.dummy = on }
}

// New creates a Pipeline over the given stages.
func New(ex Extractor, gr Grader, gen practice.Generator, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{extractor: ex, grader: gr, generator: gen, log: log}
	for _, o := range opts {
		o(p)
	}
	return p
}

// CheckImage grades a photographed homework page. It always returns a
// usable result; the boolean-like Mock field inside marks degradation.
func (p *Pipeline) CheckImage(ctx context.Context, in extract.Input) *homework.GradingResult {
	id := uuid.NewString()
	if p.dummy {
		return stamp(DegradedImageResult(in.SubjectHint), id)
	}

	log := p.log.With().Str("submission_id", id).Logger()
	state := AttemptPrimary

	ext, err := p.extractor.Extract(ctx, in, false)
	if err != nil || len(ext.Items) == 0 {
		state = AttemptFallback
		if err != nil {
			log.Warn().Err(err).Stringer("state", state).Msg("strict extraction failed, retrying relaxed")
		} else {
			log.Info().Stringer("state", state).Msg("strict extraction found nothing, retrying relaxed")
		}

		relaxed, rerr := p.extractor.Extract(ctx, in, true)
		switch {
		case rerr == nil:
			ext = relaxed
		case err != nil:
			// Both attempts failed outright.
			log.Error().Err(rerr).Stringer("state", DegradedResponse).Msg("extraction exhausted, degrading")
			return stamp(DegradedImageResult(in.SubjectHint), id)
		default:
			// Strict succeeded with zero items and the relaxed retry
			// errored: an empty page is a valid answer, keep it.
			log.Warn().Err(rerr).Msg("relaxed retry failed, keeping empty extraction")
		}
	}

	result := &homework.GradingResult{
		SubmissionID:  id,
		Subject:       settleResponseSubject(ext.Subject),
		DetectedGrade: ext.DetectedGrade,
		Problems:      []homework.GradedItem{},
	}
	if len(ext.Items) == 0 {
		return result
	}

	gin := grade.Input{
		Items:         ext.Items,
		Subject:       ext.Subject,
		DetectedGrade: ext.DetectedGrade,
	}
	graded, err := p.grader.Grade(ctx, gin)
	if err != nil {
		if state == AttemptPrimary {
			state = AttemptFallback
		} else {
			state = DegradedResponse
		}
		log.Warn().Err(err).Stringer("state", state).Msg("grading failed")
		if state == DegradedResponse {
			return stamp(DegradedImageResult(in.SubjectHint), id)
		}
		graded, err = p.grader.Grade(ctx, gin)
		if err != nil {
			log.Error().Err(err).Stringer("state", DegradedResponse).Msg("grading exhausted, degrading")
			return stamp(DegradedImageResult(in.SubjectHint), id)
		}
	}

	result.Problems = graded
	return result
}

func stamp(r *homework.GradingResult, id string) *homework.GradingResult {
	r.SubmissionID = id
	return r
}

// CheckText grades one typed-in question and answer. The engine call
// is retried once before degrading.
func (p *Pipeline) CheckText(ctx context.Context, in grade.TextInput) *grade.TextResult {
	if p.dummy {
		return DegradedTextResult()
	}

	res, err := p.grader.GradeText(ctx, in)
	if err != nil {
		p.log.Warn().Err(err).Stringer("state", AttemptFallback).Msg("text grading failed, retrying")
		res, err = p.grader.GradeText(ctx, in)
	}
	if err != nil {
		p.log.Error().Err(err).Stringer("state", DegradedResponse).Msg("text grading exhausted, degrading")
		return DegradedTextResult()
	}
	return res
}

// GeneratePractice produces drill questions. Returns the questions and
// whether the set is the degraded placeholder.
func (p *Pipeline) GeneratePractice(ctx context.Context, in practice.GenerateInput) ([]practice.Question, bool) {
	if p.dummy {
		return DegradedPracticeSet(), true
	}

	qs, err := p.generator.Generate(ctx, in)
	if err != nil {
		p.log.Warn().Err(err).Stringer("state", AttemptFallback).Msg("practice generation failed, retrying")
		qs, err = p.generator.Generate(ctx, in)
	}
	if err != nil {
		p.log.Error().Err(err).Stringer("state", DegradedResponse).Msg("practice generation exhausted, degrading")
		return DegradedPracticeSet(), true
	}
	return qs, false
}

// settleResponseSubject enforces the response-level policy that a
// successful grading result never reports "unknown": a page that got
// this far had content, and the client renders unknown as an empty
// screen. Math is the default the original client shipped with.
func settleResponseSubject(s homework.Subject) homework.Subject {
	if s == homework.SubjectUnknown || s == "" {
		return homework.SubjectMath
	}
	return s
}
