package domain

// SyncReport summarizes a sync run. Per-channel failures are collected into
// Errors and returned with the rest of the summary; they never abort the run.
type SyncReport struct {
	ChannelsProcessed    int      `json:"channels_processed"`
	ChannelsFailed       int      `json:"channels_failed"`
	MessagesFetched      int      `json:"messages_fetched"`
	MessagesIndexed      int      `json:"messages_indexed"`
	MessagesSkipped      int      `json:"messages_skipped"`
	ThreadRepliesIndexed int      `json:"thread_replies_indexed"`
	Errors               []string `json:"errors"`
}

// SearchOptions control a semantic search. Channel and the timestamp range
// are combined with boolean AND; hits below MinScore are dropped.
type SearchOptions struct {
	Limit    int
	Channel  string
	MinScore float64
	FromTS   float64
	ToTS     float64
}

// SearchResult is a single search hit
type SearchResult struct {
	PointID string         `json:"point_id"`
	Score   float64        `json:"score"`
	Payload MessagePayload `json:"payload"`
}

// SyncStatus is the operator-facing status summary
type SyncStatus struct {
	State        *SyncState `json:"state"`
	IndexedCount int        `json:"indexed_count"`
	Collection   string     `json:"collection"`
	Encrypted    bool       `json:"encrypted"`
}
