package repository

import (
	messagedomain "workmind-backend/internal/message/domain"
)

// SyncStateRepository defines the interface for the durable sync checkpoint
type SyncStateRepository interface {
	// Load reads the state file, returning an empty state if none exists
	Load() (*messagedomain.SyncState, error)
	// Save persists the full state; called immediately after each channel
	// completes so a crash loses at most the in-flight channel
	Save(state *messagedomain.SyncState) error
	// Reset deletes the state file; the next run refetches full history
	Reset() error
}
