package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	messagedomain "workmind-backend/internal/message/domain"
)

// fileSyncStateRepository implements SyncStateRepository on a single
// human-readable JSON file. Two concurrent runs against the same file are
// not guarded; that is an accepted single-operator constraint, not a
// supported mode.
type fileSyncStateRepository struct {
	path string
}

// NewFileSyncStateRepository creates a state repository backed by the given
// file path, creating the parent directory if needed.
func NewFileSyncStateRepository(path string) (SyncStateRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &fileSyncStateRepository{path: path}, nil
}

func (r *fileSyncStateRepository) Load() (*messagedomain.SyncState, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return messagedomain.NewSyncState(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state messagedomain.SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", r.path, err)
	}
	if state.Channels == nil {
		state.Channels = make(map[string]*messagedomain.ChannelSyncState)
	}
	return &state, nil
}

func (r *fileSyncStateRepository) Save(state *messagedomain.SyncState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write-then-rename keeps the checkpoint intact if the process dies mid-write
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (r *fileSyncStateRepository) Reset() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}
