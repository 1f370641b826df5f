package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveArtifact stores a JSON artifact produced by a pipeline step, keyed
// by step name and channel so a re-run replaces the previous output.
func (db *DB) SaveArtifact(ctx context.Context, step, channel, vertical string, content any) (uuid.UUID, error) {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_artifacts (step, channel, vertical, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (step, channel, vertical) DO UPDATE SET content = $4, created_at = NOW()
		 RETURNING id`,
		step, channel, vertical, jsonBytes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return id, nil
}

// GetArtifact retrieves the latest artifact for a step and channel.
func (db *DB) GetArtifact(ctx context.Context, step, channel, vertical string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM pipeline_artifacts
		 WHERE step = $1 AND channel = $2 AND vertical = $3`,
		step, channel, vertical,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}
