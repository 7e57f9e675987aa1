// Package file persists the store snapshot as a JSON file on local disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"storekeep/internal/store"
)

type Persister struct {
	path string
}

func New(path string) *Persister {
	return &Persister{path: path}
}

// Load reads the last-saved snapshot. A missing file means no snapshot and
// returns nil without error; an unreadable or malformed file returns an error
// for the store to log and degrade on.
func (p *Persister) Load(_ context.Context) (*store.Snapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return &snap, nil
}

// Save overwrites the snapshot file with the full current state.
func (p *Persister) Save(_ context.Context, snap *store.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}
