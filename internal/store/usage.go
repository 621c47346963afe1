package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CallEvent is one recorded grading-engine call.
type CallEvent struct {
	ID           int64
	CreatedAt    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// PurposeStats aggregates calls sharing a purpose label.
type PurposeStats struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	AvgLatencyMs int64
}

// UsageRepo records and queries engine call events.
type UsageRepo interface {
	AppendCall(ctx context.Context, ev CallEvent) error
	RecentCalls(ctx context.Context, limit int) ([]CallEvent, error)
	StatsByPurpose(ctx context.Context) ([]PurposeStats, error)
}

type usageRepo struct {
	db *sql.DB
}

func (r *usageRepo) AppendCall(ctx context.Context, ev CallEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO engine_calls
			(provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Provider, ev.Model, ev.Purpose,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs,
		ev.Success, ev.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append engine call: %w", err)
	}
	return nil
}

func (r *usageRepo) RecentCalls(ctx context.Context, limit int) ([]CallEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, provider, model, purpose,
		       input_tokens, output_tokens, latency_ms, success, error_message
		FROM engine_calls
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query engine calls: %w", err)
	}
	defer rows.Close()

	var out []CallEvent
	for rows.Next() {
		var ev CallEvent
		if err := rows.Scan(
			&ev.ID, &ev.CreatedAt, &ev.Provider, &ev.Model, &ev.Purpose,
			&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan engine call: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *usageRepo) StatsByPurpose(ctx context.Context) ([]PurposeStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT purpose,
		       COUNT(*),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		FROM engine_calls
		GROUP BY purpose
		ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage stats: %w", err)
	}
	defer rows.Close()

	var out []PurposeStats
	for rows.Next() {
		var st PurposeStats
		if err := rows.Scan(
			&st.Purpose, &st.Calls, &st.Failures,
			&st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs,
		); err != nil {
			return nil, fmt.Errorf("scan usage stats: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// NopUsage returns a UsageRepo that discards events; used when the
// store is disabled in configuration.
func NopUsage() UsageRepo {
	return nopUsage{}
}

type nopUsage struct{}

func (nopUsage) AppendCall(context.Context, CallEvent) error          { return nil }
func (nopUsage) RecentCalls(context.Context, int) ([]CallEvent, error) { return nil, nil }
func (nopUsage) StatsByPurpose(context.Context) ([]PurposeStats, error) {
	return nil, nil
}
