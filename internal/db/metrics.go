package db

import (
	"context"
	"fmt"

	"github.com/applyforge/applyforge/internal/agents"
)

// InsertAgentMetric records one agent run.
func (db *DB) InsertAgentMetric(ctx context.Context, rec agents.RunRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO agent_metrics (agent, duration_ms, success, message, ran_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.Agent, rec.Duration.Milliseconds(), rec.Success, rec.Message, rec.At,
	)
	if err != nil {
		return fmt.Errorf("failed to insert agent metric: %w", err)
	}
	return nil
}

// MetricsRecorder adapts the database to the agents.Recorder interface.
// Insert failures are dropped: losing a metric must never fail the run
// that produced it.
type MetricsRecorder struct {
	DB *DB
}

func (r *MetricsRecorder) RecordRun(ctx context.Context, rec agents.RunRecord) {
	_ = r.DB.InsertAgentMetric(ctx, rec)
}
