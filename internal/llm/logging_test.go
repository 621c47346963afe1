package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tougaku/sensei/internal/store"
)

// recordingUsage captures appended events for inspection.
type recordingUsage struct {
	events []store.CallEvent
}

func (r *recordingUsage) AppendCall(_ context.Context, ev store.CallEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingUsage) RecentCalls(context.Context, int) ([]store.CallEvent, error) {
	return r.events, nil
}

func (r *recordingUsage) StatsByPurpose(context.Context) ([]store.PurposeStats, error) {
	return nil, nil
}

func TestLogging_RecordsProviderAndModelSeparately(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	usage := &recordingUsage{}
	p := WithLogging(mock, "gemini", zerolog.Nop(), usage)

	ctx := WithPurpose(context.Background(), "extraction")
	_, err := p.Generate(ctx, Request{MaxTokens: 16})
	require.NoError(t, err)

	require.Len(t, usage.events, 1)
	ev := usage.events[0]
	assert.Equal(t, "gemini", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "extraction", ev.Purpose)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 7, ev.OutputTokens)
	assert.True(t, ev.Success)
}

func TestLogging_RecordsFailures(t *testing.T) {
	mock := NewMockProvider()
	usage := &recordingUsage{}
	p := WithLogging(mock, "anthropic", zerolog.Nop(), usage)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, usage.events, 1)
	ev := usage.events[0]
	assert.Equal(t, "anthropic", ev.Provider)
	assert.False(t, ev.Success)
	assert.NotEmpty(t, ev.ErrorMessage)
}
