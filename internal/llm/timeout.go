package llm

import (
	"context"
	"time"
)

// TimeoutProvider bounds each engine call. A timed-out call surfaces
// as ErrProviderUnavailable so the retry and fallback layers treat it
// like any other stage failure instead of hanging the request.
type TimeoutProvider struct {
	provider Provider
	timeout  time.Duration
}

// WithTimeout wraps a provider with a per-call deadline. A zero or
// negative timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{provider: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.provider.Generate(ctx, req)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return nil, &ErrProviderUnavailable{Err: ctx.Err()}
	}
	return resp, err
}

func (t *TimeoutProvider) ModelID() string {
	return t.provider.ModelID()
}
