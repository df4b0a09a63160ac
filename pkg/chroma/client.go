package chroma

import (
	"context"
	"fmt"
	"log"
	"sync"

	"workmind-backend/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
)

// pointNamespace is the fixed UUIDv5 namespace for deterministic point ids
var pointNamespace = uuid.MustParse("7a1c3f52-90de-4c11-b5b2-6f0a8e24d9c3")

// PointID derives the stable, UUID-shaped id of a message point from
// "{channelID}:{timestamp}" plus an optional variant suffix. The same inputs
// always yield the same id across processes and runs, which is what makes
// re-sync upserts idempotent. Plaintext and encrypted collections never share
// ids because the variant participates in the hash.
func PointID(channelID, timestamp, variant string) string {
	key := channelID + ":" + timestamp
	if variant != "" {
		key += ":" + variant
	}
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

// Point is an (id, vector, payload) triple bound for the index
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]interface{}
	Text    string
}

// Hit is a nearest-neighbor search result
type Hit struct {
	ID       string
	Score    float64
	Metadata map[string]interface{}
}

// Client wraps the Chroma HTTP API. Collections are created on first use and
// cached for the process lifetime.
type Client struct {
	client      chroma.Client
	collections map[string]chroma.Collection
	mu          sync.Mutex
}

// NewClient creates a Chroma client from config. Supports both a self-hosted
// instance (CHROMA_URL) and Chroma Cloud (api key + tenant/database).
func NewClient(cfg *config.Config) (*Client, error) {
	opts := []chroma.ClientOption{chroma.WithBaseURL(cfg.ChromaURL)}
	if cfg.ChromaAPIKey != "" {
		opts = append(opts, chroma.WithCloudAPIKey(cfg.ChromaAPIKey))
	}
	if cfg.ChromaDatabase != "" && cfg.ChromaTenant != "" {
		opts = append(opts, chroma.WithDatabaseAndTenant(cfg.ChromaDatabase, cfg.ChromaTenant))
	} else if cfg.ChromaTenant != "" {
		opts = append(opts, chroma.WithTenant(cfg.ChromaTenant))
	}

	client, err := chroma.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	log.Printf("[Chroma] Client initialized for %s", cfg.ChromaURL)

	return &Client{
		client:      client,
		collections: make(map[string]chroma.Collection),
	}, nil
}

func (c *Client) collection(ctx context.Context, name string) (chroma.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if col, ok := c.collections[name]; ok {
		return col, nil
	}

	col, err := c.client.GetOrCreateCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", name, err)
	}
	c.collections[name] = col
	return col, nil
}

// Upsert writes points into a collection. An existing id is fully replaced,
// vector and payload both (last-write-wins, no merge).
func (c *Client) Upsert(ctx context.Context, collectionName string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return err
	}

	ids := make([]chroma.DocumentID, 0, len(points))
	embs := make([]embeddings.Embedding, 0, len(points))
	metas := make([]chroma.DocumentMetadata, 0, len(points))
	docs := make([]string, 0, len(points))

	for _, p := range points {
		meta, err := chroma.NewDocumentMetadataFromMap(p.Payload)
		if err != nil {
			return fmt.Errorf("failed to build metadata for point %s: %w", p.ID, err)
		}
		ids = append(ids, chroma.DocumentID(p.ID))
		embs = append(embs, embeddings.NewEmbeddingFromFloat32(p.Vector))
		metas = append(metas, meta)
		docs = append(docs, p.Text)
	}

	if err := col.Upsert(
		ctx,
		chroma.WithIDs(ids...),
		chroma.WithEmbeddings(embs...),
		chroma.WithMetadatas(metas...),
		chroma.WithTexts(docs...),
	); err != nil {
		return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), collectionName, err)
	}

	return nil
}

// Query runs nearest-neighbor search with optional exact-match (channel) and
// numeric-range (timestamp) predicates combined with AND. Scores are
// 1 - cosine distance, so higher is closer.
func (c *Client) Query(ctx context.Context, collectionName string, vector []float32, limit int, channelID string, fromTS, toTS float64) ([]Hit, error) {
	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	opts := []chroma.CollectionQueryOption{
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithNResults(limit),
		// Distances are always part of query results; only metadata needs asking for
		chroma.WithIncludeQuery(chroma.IncludeMetadatas),
	}
	if where := buildWhere(channelID, fromTS, toTS); where != nil {
		opts = append(opts, chroma.WithWhereQuery(where))
	}

	results, err := col.Query(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collectionName, err)
	}
	if results == nil || results.CountGroups() == 0 {
		return []Hit{}, nil
	}

	idGroups := results.GetIDGroups()
	distanceGroups := results.GetDistancesGroups()
	metadataGroups := results.GetMetadatasGroups()
	if len(idGroups) == 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		hit := Hit{ID: string(id)}
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			hit.Score = 1 - float64(distanceGroups[0][i])
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			hit.Metadata = metadataToMap(metadataGroups[0][i])
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// GetByTimeRange scrolls a channel's points inside a timestamp window,
// metadata only, no vector search involved.
func (c *Client) GetByTimeRange(ctx context.Context, collectionName, channelID string, fromTS, toTS float64) ([]map[string]interface{}, error) {
	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	result, err := col.Get(
		ctx,
		chroma.WithWhereGet(buildWhere(channelID, fromTS, toTS)),
		chroma.WithIncludeGet(chroma.IncludeMetadatas),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scroll collection %s: %w", collectionName, err)
	}

	metadatas := result.GetMetadatas()
	out := make([]map[string]interface{}, 0, len(metadatas))
	for _, md := range metadatas {
		out = append(out, metadataToMap(md))
	}
	return out, nil
}

// Count returns the number of points in a collection
func (c *Client) Count(ctx context.Context, collectionName string) (int, error) {
	col, err := c.collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	count, err := col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %s: %w", collectionName, err)
	}
	return count, nil
}

// DeleteCollection drops a collection entirely
func (c *Client) DeleteCollection(ctx context.Context, collectionName string) error {
	c.mu.Lock()
	delete(c.collections, collectionName)
	c.mu.Unlock()

	if err := c.client.DeleteCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collectionName, err)
	}
	return nil
}

// buildWhere combines the channel equality and timestamp range predicates
// with AND. Returns nil when no predicate applies.
//
// The range filter runs on the integer timestamp_seconds field: float32
// metadata comparisons lose ~64s of resolution at Slack-epoch magnitudes,
// which is enough to include or drop whole messages at the window edges.
// Flooring both bounds widens the window by at most a second and never
// excludes a matching point; callers trim to the exact bounds afterwards.
func buildWhere(channelID string, fromTS, toTS float64) chroma.WhereFilter {
	var clauses []chroma.WhereClause
	if channelID != "" {
		clauses = append(clauses, chroma.EqString("channel_id", channelID))
	}
	if fromTS > 0 {
		clauses = append(clauses, chroma.GteInt("timestamp_seconds", int(fromTS)))
	}
	if toTS > 0 {
		clauses = append(clauses, chroma.LteInt("timestamp_seconds", int(toTS)))
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return chroma.And(clauses...)
	}
}

// payloadKeys are the metadata attributes the engine writes; used to rebuild
// a flat map from the typed metadata accessors.
var payloadStringKeys = []string{"channel_id", "channel_name", "timestamp", "user_id", "user_name", "text", "thread_timestamp"}

func metadataToMap(md chroma.DocumentMetadata) map[string]interface{} {
	out := make(map[string]interface{})
	if md == nil {
		return out
	}
	for _, key := range payloadStringKeys {
		if v, ok := md.GetString(key); ok {
			out[key] = v
		}
	}
	if v, ok := md.GetFloat("timestamp_value"); ok {
		out["timestamp_value"] = v
	}
	if v, ok := md.GetBool("is_thread_parent"); ok {
		out["is_thread_parent"] = v
	}
	if v, ok := md.GetInt("version"); ok {
		out["version"] = int(v)
	} else if f, ok := md.GetFloat("version"); ok {
		out["version"] = int(f)
	}
	return out
}
