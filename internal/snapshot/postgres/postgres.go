// Package postgres persists the store snapshot as a single jsonb row, for
// deployments where local files are not durable enough.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storekeep/internal/store"
)

type Persister struct {
	db *sql.DB
}

func New(db *sql.DB) *Persister {
	return &Persister{db: db}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (p *Persister) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			payload jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT NOW()
		)
	`

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}

	return nil
}

func (p *Persister) Load(ctx context.Context) (*store.Snapshot, error) {
	var payload []byte

	err := p.db.QueryRowContext(ctx, "SELECT payload FROM snapshots WHERE id = 1").Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return &snap, nil
}

func (p *Persister) Save(ctx context.Context, snap *store.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, payload, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := p.db.ExecContext(ctx, query, payload); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	return nil
}
