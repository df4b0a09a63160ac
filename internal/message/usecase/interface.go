package usecase

import (
	"context"

	messagedomain "workmind-backend/internal/message/domain"
	"workmind-backend/pkg/chroma"
)

// ChannelIterator is a lazy, pull-based channel stream. Next returns
// (nil, nil) once the stream is exhausted.
type ChannelIterator interface {
	Next(ctx context.Context) (*messagedomain.Channel, error)
}

// ChatService is the chat-platform read API the engine consumes
type ChatService interface {
	Channels() ChannelIterator
	FetchMessages(ctx context.Context, channelID, channelName, sinceCursor string, limit int) ([]*messagedomain.Message, error)
	FetchThreadReplies(ctx context.Context, channelID, channelName, rootTS string) ([]*messagedomain.Message, error)
}

// VectorStore is the vector index the engine writes to and searches
type VectorStore interface {
	Upsert(ctx context.Context, collection string, points []chroma.Point) error
	Query(ctx context.Context, collection string, vector []float32, limit int, channelID string, fromTS, toTS float64) ([]chroma.Hit, error)
	GetByTimeRange(ctx context.Context, collection, channelID string, fromTS, toTS float64) ([]map[string]interface{}, error)
	Count(ctx context.Context, collection string) (int, error)
	DeleteCollection(ctx context.Context, collection string) error
}

// SyncOptions control a sync run
type SyncOptions struct {
	// WithThreads enables thread-reply fan-out for thread parents
	WithThreads bool
	// MessageLimit caps how many new messages are fetched per channel
	// (0 = unlimited)
	MessageLimit int
}

// MessageUsecase is the engine's public surface: sync, search, context,
// status and reset for one variant (plaintext or encrypted).
type MessageUsecase interface {
	SyncAll(ctx context.Context, opts SyncOptions) (*messagedomain.SyncReport, error)
	Search(ctx context.Context, query string, opts messagedomain.SearchOptions) ([]messagedomain.SearchResult, error)
	Context(ctx context.Context, channelID, centerTS string, windowMinutes int) ([]messagedomain.MessagePayload, error)
	Status(ctx context.Context) (*messagedomain.SyncStatus, error)
	Reset(ctx context.Context) error
}
