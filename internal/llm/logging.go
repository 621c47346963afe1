package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tougaku/sensei/internal/store"
)

// LoggingProvider is a decorator that logs every engine call and records
// it as a usage event. Request and response bodies are deliberately not
// persisted; submissions must not outlive their request.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      zerolog.Logger
	usage    store.UsageRepo
}

// WithLogging wraps a Provider with structured logging and usage
// recording. provider is the configured vendor name ("anthropic",
// "openai", "gemini"); the model ID is recorded separately.
func WithLogging(p Provider, provider string, log zerolog.Logger, usage store.UsageRepo) Provider {
	if usage == nil {
		usage = store.NopUsage()
	}
	return &LoggingProvider{inner: p, provider: provider, log: log, usage: usage}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	ev := store.CallEvent{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}

	logEv := l.log.Info()
	if err != nil {
		logEv = l.log.Warn()
		ev.ErrorMessage = err.Error()
	}

	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
	}

	logEv.
		Str("purpose", purpose).
		Str("provider", l.provider).
		Str("model", ev.Model).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Dur("latency", latency).
		Bool("images", len(req.Images) > 0).
		Err(err).
		Msg("engine call")

	// Record the event but don't fail the request if recording fails.
	if recErr := l.usage.AppendCall(ctx, ev); recErr != nil {
		l.log.Warn().Err(recErr).Msg("failed to record engine call event")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
