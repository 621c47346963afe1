package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sensei.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsageRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Usage()
	ctx := context.Background()

	require.NoError(t, repo.AppendCall(ctx, CallEvent{
		Provider:     "mock",
		Model:        "mock",
		Purpose:      "extract",
		InputTokens:  120,
		OutputTokens: 80,
		LatencyMs:    350,
		Success:      true,
	}))
	require.NoError(t, repo.AppendCall(ctx, CallEvent{
		Provider:     "mock",
		Model:        "mock",
		Purpose:      "grade",
		Success:      false,
		ErrorMessage: "provider unavailable",
	}))

	calls, err := repo.RecentCalls(ctx, 10)
	require.NoError(t, err)
	require.Len(t, calls, 2)

	// Newest first.
	assert.Equal(t, "grade", calls[0].Purpose)
	assert.False(t, calls[0].Success)
	assert.Equal(t, "extract", calls[1].Purpose)
	assert.Equal(t, 120, calls[1].InputTokens)
}

func TestUsageRepo_StatsByPurpose(t *testing.T) {
	s := openTestStore(t)
	repo := s.Usage()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AppendCall(ctx, CallEvent{
			Provider: "mock", Model: "mock", Purpose: "extract",
			InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true,
		}))
	}
	require.NoError(t, repo.AppendCall(ctx, CallEvent{
		Provider: "mock", Model: "mock", Purpose: "extract", Success: false,
	}))

	stats, err := repo.StatsByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, "extract", stats[0].Purpose)
	assert.Equal(t, 4, stats[0].Calls)
	assert.Equal(t, 1, stats[0].Failures)
	assert.Equal(t, int64(300), stats[0].InputTokens)
}

func TestOpen_CreatesSchemaIdempotently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sensei.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}
