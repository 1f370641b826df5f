package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lead is one stored recruiter/hiring contact. DedupeKey is derived from
// the lead's identifying fields before insert; the table carries a unique
// index on it so re-running a pipeline step never duplicates contacts.
type Lead struct {
	ID        uuid.UUID
	DedupeKey string
	Name      string
	Company   string
	Title     string
	Email     string
	URL       string
	Channel   string
	Vertical  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertLead inserts a lead or refreshes an existing one with the same
// dedupe key, returning the stored row's ID.
func (db *DB) UpsertLead(ctx context.Context, lead Lead) (uuid.UUID, error) {
	if lead.DedupeKey == "" {
		return uuid.Nil, fmt.Errorf("lead has no dedupe key")
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO leads (dedupe_key, name, company, title, email, url, channel, vertical)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (dedupe_key) DO UPDATE
		 SET name = EXCLUDED.name, company = EXCLUDED.company, title = EXCLUDED.title,
		     email = EXCLUDED.email, url = EXCLUDED.url, updated_at = NOW()
		 RETURNING id`,
		lead.DedupeKey, lead.Name, lead.Company, lead.Title, lead.Email,
		lead.URL, lead.Channel, lead.Vertical,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert lead: %w", err)
	}
	return id, nil
}

// ListLeads returns leads for a vertical, newest first.
func (db *DB) ListLeads(ctx context.Context, vertical string, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, dedupe_key, name, company, title, email, url, channel, vertical, created_at, updated_at
		 FROM leads WHERE vertical = $1
		 ORDER BY created_at DESC LIMIT $2`,
		vertical, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.DedupeKey, &l.Name, &l.Company, &l.Title,
			&l.Email, &l.URL, &l.Channel, &l.Vertical, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// CountLeads returns the number of stored leads for a vertical.
func (db *DB) CountLeads(ctx context.Context, vertical string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE vertical = $1`, vertical,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}
