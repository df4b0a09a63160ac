package domain

import "time"

// ChannelSyncState is the durable per-channel checkpoint. LastSyncedTimestamp
// is the cursor: the next fetch returns only strictly newer messages. It is
// non-decreasing across successful runs.
type ChannelSyncState struct {
	ChannelID           string    `json:"channel_id"`
	ChannelName         string    `json:"channel_name"`
	LastSyncedTimestamp string    `json:"last_synced_timestamp"`
	MessageCount        int       `json:"message_count"`
	LastSyncTime        time.Time `json:"last_sync_time"`
}

// SyncState is the aggregate engine checkpoint, one JSON file per variant.
// The engine retains no message bodies between runs, only these cursors.
type SyncState struct {
	Channels      map[string]*ChannelSyncState `json:"channels"`
	LastFullSync  time.Time                    `json:"last_full_sync"`
	TotalMessages int                          `json:"total_messages"`
}

// NewSyncState returns an empty state (every channel treated as never synced)
func NewSyncState() *SyncState {
	return &SyncState{Channels: make(map[string]*ChannelSyncState)}
}
