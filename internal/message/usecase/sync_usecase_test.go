package usecase

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	messagedomain "workmind-backend/internal/message/domain"
	"workmind-backend/internal/message/repository"
	"workmind-backend/pkg/chroma"
	"workmind-backend/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// fakeChat implements ChatService from scripted fixtures
type fakeChat struct {
	channels  []messagedomain.Channel
	history   map[string][]*messagedomain.Message // channel id -> ascending history
	replies   map[string][]*messagedomain.Message // "channelID:rootTS" -> replies
	failFetch map[string]bool
}

type fakeIterator struct {
	channels []messagedomain.Channel
	pos      int
}

func (it *fakeIterator) Next(ctx context.Context) (*messagedomain.Channel, error) {
	if it.pos >= len(it.channels) {
		return nil, nil
	}
	ch := it.channels[it.pos]
	it.pos++
	return &ch, nil
}

func (f *fakeChat) Channels() ChannelIterator {
	return &fakeIterator{channels: f.channels}
}

func (f *fakeChat) FetchMessages(ctx context.Context, channelID, channelName, sinceCursor string, limit int) ([]*messagedomain.Message, error) {
	if f.failFetch[channelID] {
		return nil, fmt.Errorf("channel unreachable")
	}
	var out []*messagedomain.Message
	for _, m := range f.history[channelID] {
		if m.TimestampValue() <= timestampValue(sinceCursor) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeChat) FetchThreadReplies(ctx context.Context, channelID, channelName, rootTS string) ([]*messagedomain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.replies[channelID+":"+rootTS], nil
}

// fakeEmbedder maps texts mentioning "budget" near one axis and everything
// else near the other, so similarity behaves predictably in tests
type fakeEmbedder struct {
	failOn string
	calls  int
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if f.failOn != "" && strings.Contains(text, f.failOn) {
			return nil, fmt.Errorf("embedding provider rejected batch")
		}
		if strings.Contains(strings.ToLower(text), "budget") {
			vectors[i] = []float32{1, 0}
		} else {
			vectors[i] = []float32{0, 1}
		}
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int { return 2 }

// fakeStore is an in-memory VectorStore with cosine scoring
type fakeStore struct {
	points map[string]map[string]chroma.Point // collection -> id -> point
}

func newFakeStore() *fakeStore {
	return &fakeStore{points: make(map[string]map[string]chroma.Point)}
}

func (s *fakeStore) Upsert(ctx context.Context, collection string, points []chroma.Point) error {
	if s.points[collection] == nil {
		s.points[collection] = make(map[string]chroma.Point)
	}
	for _, p := range points {
		s.points[collection][p.ID] = p
	}
	return nil
}

func (s *fakeStore) Query(ctx context.Context, collection string, vector []float32, limit int, channelID string, fromTS, toTS float64) ([]chroma.Hit, error) {
	var hits []chroma.Hit
	for id, p := range s.points[collection] {
		if !matchesFilter(p.Payload, channelID, fromTS, toTS) {
			continue
		}
		hits = append(hits, chroma.Hit{ID: id, Score: cosine(vector, p.Vector), Metadata: p.Payload})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *fakeStore) GetByTimeRange(ctx context.Context, collection, channelID string, fromTS, toTS float64) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	for _, p := range s.points[collection] {
		if matchesFilter(p.Payload, channelID, fromTS, toTS) {
			out = append(out, p.Payload)
		}
	}
	return out, nil
}

func (s *fakeStore) Count(ctx context.Context, collection string) (int, error) {
	return len(s.points[collection]), nil
}

func (s *fakeStore) DeleteCollection(ctx context.Context, collection string) error {
	delete(s.points, collection)
	return nil
}

// matchesFilter mirrors the real store's predicate semantics: the range
// filter runs on the integer timestamp_seconds field, so it is second-granular
// and may over-include at the window edges. The usecase trims to exact bounds.
func matchesFilter(payload map[string]interface{}, channelID string, fromTS, toTS float64) bool {
	if channelID != "" && payload["channel_id"] != channelID {
		return false
	}
	sec, _ := payload["timestamp_seconds"].(int)
	if fromTS > 0 && sec < int(fromTS) {
		return false
	}
	if toTS > 0 && sec > int(toTS) {
		return false
	}
	return true
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func msg(channelID, channelName, ts, user, text string) *messagedomain.Message {
	return &messagedomain.Message{
		ChannelID:   channelID,
		ChannelName: channelName,
		Timestamp:   ts,
		UserID:      "U" + user,
		UserName:    user,
		Text:        text,
	}
}

func threadRoot(channelID, channelName, ts, user, text string) *messagedomain.Message {
	m := msg(channelID, channelName, ts, user, text)
	m.ThreadTimestamp = ts
	m.IsThreadParent = true
	return m
}

func threadReply(channelID, channelName, ts, rootTS, user, text string) *messagedomain.Message {
	m := msg(channelID, channelName, ts, user, text)
	m.ThreadTimestamp = rootTS
	return m
}

type engineFixture struct {
	chat     *fakeChat
	embedder *fakeEmbedder
	store    *fakeStore
	repo     repository.SyncStateRepository
	usecase  MessageUsecase
}

func newEngine(t *testing.T, chat *fakeChat, cfg VariantConfig) *engineFixture {
	t.Helper()
	if cfg.Collection == "" {
		cfg.Collection = "messages"
	}
	repo, err := repository.NewFileSyncStateRepository(filepath.Join(t.TempDir(), "sync_state.json"))
	require.NoError(t, err)

	embedder := &fakeEmbedder{}
	store := newFakeStore()
	return &engineFixture{
		chat:     chat,
		embedder: embedder,
		store:    store,
		repo:     repo,
		usecase:  NewMessageUsecase(chat, embedder, store, repo, cfg),
	}
}

func TestSyncIndexesNewMessagesAndAdvancesCursor(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", Visibility: messagedomain.VisibilityPublic, IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {
				msg("C1", "general", "999.000100", "dana", "old message"),
				msg("C1", "general", "1001.000100", "dana", "first"),
				msg("C1", "general", "1002.000100", "erin", "second"),
				msg("C1", "general", "1003.000100", "dana", "third"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	// Seed the cursor at T0 so only the 3 newer messages are fetched
	state := messagedomain.NewSyncState()
	state.Channels["C1"] = &messagedomain.ChannelSyncState{ChannelID: "C1", LastSyncedTimestamp: "1000.000000"}
	require.NoError(t, fx.repo.Save(state))

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.ChannelsProcessed)
	assert.Equal(t, 3, report.MessagesFetched)
	assert.Equal(t, 3, report.MessagesIndexed)
	assert.Empty(t, report.Errors)

	count, _ := fx.store.Count(context.Background(), "messages")
	assert.Equal(t, 3, count)

	loaded, err := fx.repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "1003.000100", loaded.Channels["C1"].LastSyncedTimestamp)
}

func TestSyncIsIdempotentWithUnchangedUpstream(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {
				msg("C1", "general", "1001.000100", "dana", "hello"),
				msg("C1", "general", "1002.000100", "erin", "world"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.MessagesIndexed)

	report, err = fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.MessagesIndexed, "unchanged upstream must index zero new points")

	count, _ := fx.store.Count(context.Background(), "messages")
	assert.Equal(t, 2, count)
}

func TestSyncThreadReplies(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {threadRoot("C1", "general", "1001.000100", "dana", "kicking off")},
		},
		replies: map[string][]*messagedomain.Message{
			"C1:1001.000100": {
				threadReply("C1", "general", "1001.000200", "1001.000100", "erin", "reply one"),
				threadReply("C1", "general", "1001.000300", "1001.000100", "finn", "reply two"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{WithThreads: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.MessagesIndexed, "1 parent + 2 replies")
	assert.Equal(t, 2, report.ThreadRepliesIndexed)

	count, _ := fx.store.Count(context.Background(), "messages")
	assert.Equal(t, 3, count)
}

func TestSyncSkipsThreadsWhenDisabled(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {threadRoot("C1", "general", "1001.000100", "dana", "kicking off")},
		},
		replies: map[string][]*messagedomain.Message{
			"C1:1001.000100": {threadReply("C1", "general", "1001.000200", "1001.000100", "erin", "reply")},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{WithThreads: false})
	require.NoError(t, err)
	assert.Equal(t, 1, report.MessagesIndexed)
	assert.Equal(t, 0, report.ThreadRepliesIndexed)
}

func TestResetResyncProducesSamePointIDs(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {
				msg("C1", "general", "1001.000100", "dana", "hello"),
				msg("C1", "general", "1002.000100", "erin", "world"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	firstIDs := make([]string, 0)
	for id := range fx.store.points["messages"] {
		firstIDs = append(firstIDs, id)
	}
	sort.Strings(firstIDs)

	require.NoError(t, fx.usecase.Reset(context.Background()))

	// Full history refetch after reset, same upstream data
	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.MessagesIndexed)

	secondIDs := make([]string, 0)
	for id := range fx.store.points["messages"] {
		secondIDs = append(secondIDs, id)
	}
	sort.Strings(secondIDs)

	assert.Equal(t, firstIDs, secondIDs, "re-sync must produce identical point ids, no duplicates")
	count, _ := fx.store.Count(context.Background(), "messages")
	assert.Equal(t, 2, count)
}

func TestPerChannelFailureIsolation(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{
			{ID: "C1", Name: "broken", IsMember: true},
			{ID: "C2", Name: "healthy", IsMember: true},
		},
		history: map[string][]*messagedomain.Message{
			"C2": {msg("C2", "healthy", "1001.000100", "dana", "fine here")},
		},
		failFetch: map[string]bool{"C1": true},
	}
	fx := newEngine(t, chat, VariantConfig{})

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err, "channel failures are reported, never raised")

	assert.Equal(t, 1, report.ChannelsProcessed)
	assert.Equal(t, 1, report.ChannelsFailed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "broken")
	assert.Equal(t, 1, report.MessagesIndexed)

	// The failed channel never got a cursor
	loaded, err := fx.repo.Load()
	require.NoError(t, err)
	assert.NotContains(t, loaded.Channels, "C1")
	assert.Contains(t, loaded.Channels, "C2")
}

func TestEmbedFailureDoesNotAdvanceCursor(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {msg("C1", "general", "1001.000100", "dana", "POISON text")},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})
	fx.embedder.failOn = "POISON"

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.ChannelsFailed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "embedding")
	assert.Equal(t, 0, report.MessagesIndexed)

	loaded, err := fx.repo.Load()
	require.NoError(t, err)
	assert.NotContains(t, loaded.Channels, "C1", "cursor must not advance on embedding failure")

	// Once the provider recovers, the channel is retried in full
	fx.embedder.failOn = ""
	report, err = fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.MessagesIndexed)
}

func TestSearchRankingAndMinScore(t *testing.T) {
	history := []*messagedomain.Message{
		msg("C1", "general", "1001.000100", "dana", "budget discussion for next quarter"),
	}
	for i := 0; i < 9; i++ {
		history = append(history, msg("C1", "general", fmt.Sprintf("1002.%06d", i+1), "erin", fmt.Sprintf("unrelated chatter %d", i)))
	}
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history:  map[string][]*messagedomain.Message{"C1": history},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	results, err := fx.usecase.Search(context.Background(), "budget", messagedomain.SearchOptions{Limit: 10, MinScore: 0.5})
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Payload.Text, "budget discussion")
	for i, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.5)
		if i > 0 {
			assert.LessOrEqual(t, r.Score, results[i-1].Score, "results must be ordered by descending score")
		}
	}
}

func TestSearchChannelAndTimeFilters(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{
			{ID: "C1", Name: "general", IsMember: true},
			{ID: "C2", Name: "random", IsMember: true},
		},
		history: map[string][]*messagedomain.Message{
			"C1": {msg("C1", "general", "1001.000100", "dana", "budget in general")},
			"C2": {msg("C2", "random", "2001.000100", "erin", "budget in random")},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	results, err := fx.usecase.Search(context.Background(), "budget", messagedomain.SearchOptions{Limit: 10, Channel: "C2"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "C2", results[0].Payload.ChannelID)

	results, err = fx.usecase.Search(context.Background(), "budget", messagedomain.SearchOptions{Limit: 10, FromTS: 900, ToTS: 1500})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "C1", results[0].Payload.ChannelID)
}

func TestSearchTimeFilterIsExactAtSubSecondBounds(t *testing.T) {
	// Two messages within the same second: the store's integer-second range
	// filter cannot tell them apart, so the engine's exact trim decides
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {
				msg("C1", "general", "1000.200000", "dana", "budget draft early"),
				msg("C1", "general", "1000.800000", "erin", "budget draft late"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	results, err := fx.usecase.Search(context.Background(), "budget", messagedomain.SearchOptions{Limit: 10, FromTS: 1000.5, ToTS: 2000})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1000.800000", results[0].Payload.Timestamp)

	results, err = fx.usecase.Search(context.Background(), "budget", messagedomain.SearchOptions{Limit: 10, FromTS: 900, ToTS: 1000.5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1000.200000", results[0].Payload.Timestamp)
}

func TestContextWindow(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {
				msg("C1", "general", "1000.000100", "dana", "way before"),
				msg("C1", "general", "3500.000100", "erin", "just before"),
				msg("C1", "general", "3600.000100", "dana", "center"),
				msg("C1", "general", "3700.000100", "finn", "just after"),
				msg("C1", "general", "9000.000100", "erin", "way after"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	// ±5 minutes around the center catches only the three middle messages
	payloads, err := fx.usecase.Context(context.Background(), "C1", "3600.000100", 5)
	require.NoError(t, err)

	require.Len(t, payloads, 3)
	assert.Equal(t, "just before", payloads[0].Text)
	assert.Equal(t, "center", payloads[1].Text)
	assert.Equal(t, "just after", payloads[2].Text)
}

func TestContextWindowTrimsSubSecondEdges(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {
				msg("C1", "general", "3540.000050", "dana", "just outside lower edge"),
				msg("C1", "general", "3540.000200", "erin", "just inside lower edge"),
				msg("C1", "general", "3600.000100", "dana", "center"),
				msg("C1", "general", "3660.000200", "finn", "just outside upper edge"),
			},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	// ±1 minute spans [3540.000100, 3660.000100]; the edge messages share a
	// second with the bounds but fall outside them
	payloads, err := fx.usecase.Context(context.Background(), "C1", "3600.000100", 1)
	require.NoError(t, err)

	require.Len(t, payloads, 2)
	assert.Equal(t, "just inside lower edge", payloads[0].Text)
	assert.Equal(t, "center", payloads[1].Text)
}

func TestThreadFetchStopsOnCancelledContext(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		replies: map[string][]*messagedomain.Message{
			"C1:1001.000100": {threadReply("C1", "general", "1001.000200", "1001.000100", "erin", "reply")},
		},
	}
	fx := newEngine(t, chat, VariantConfig{ThreadConcurrency: 1})
	u, ok := fx.usecase.(*messageUsecase)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	roots := []*messagedomain.Message{
		threadRoot("C1", "general", "1001.000100", "dana", "first root"),
		threadRoot("C1", "general", "1002.000100", "erin", "second root"),
		threadRoot("C1", "general", "1003.000100", "finn", "third root"),
	}
	channel := &messagedomain.Channel{ID: "C1", Name: "general"}

	replies, err := u.fetchThreads(ctx, channel, roots)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, replies)
}

func TestEncryptedVariantStoresCiphertextReturnsPlaintext(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {msg("C1", "general", "1001.000100", "dana", "budget plans are secret")},
		},
	}

	cipher, err := crypto.NewFieldCipher(testEncryptionKey)
	require.NoError(t, err)

	fx := newEngine(t, chat, VariantConfig{
		Collection: "messages_encrypted",
		Variant:    "enc",
		Cipher:     cipher,
	})

	_, err = fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	// At rest the free-text fields are ciphertext
	require.Len(t, fx.store.points["messages_encrypted"], 1)
	for _, p := range fx.store.points["messages_encrypted"] {
		storedText, _ := p.Payload["text"].(string)
		assert.NotContains(t, storedText, "budget plans")
		assert.Len(t, strings.Split(storedText, ":"), 3, "expected iv:authTag:ciphertext")
		storedUser, _ := p.Payload["user_name"].(string)
		assert.NotEqual(t, "dana", storedUser)
		// Identity and filter fields stay plaintext
		assert.Equal(t, "C1", p.Payload["channel_id"])
	}

	// Through the search layer the caller sees only plaintext. The query is
	// matched on the stored vector, which was computed before encryption.
	results, err := fx.usecase.Search(context.Background(), "budget", messagedomain.SearchOptions{Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "budget plans are secret", results[0].Payload.Text)
	assert.Equal(t, "dana", results[0].Payload.UserName)
	assert.Equal(t, "general", results[0].Payload.ChannelName)
}

func TestPlaintextAndEncryptedPointIDsNeverCollide(t *testing.T) {
	plain := chroma.PointID("C1", "1001.000100", "")
	encrypted := chroma.PointID("C1", "1001.000100", "enc")
	assert.NotEqual(t, plain, encrypted)
}

func TestStatusReportsStateAndIndexSize(t *testing.T) {
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history: map[string][]*messagedomain.Message{
			"C1": {msg("C1", "general", "1001.000100", "dana", "hello")},
		},
	}
	fx := newEngine(t, chat, VariantConfig{})

	_, err := fx.usecase.SyncAll(context.Background(), SyncOptions{})
	require.NoError(t, err)

	status, err := fx.usecase.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, status.IndexedCount)
	assert.Equal(t, "messages", status.Collection)
	assert.False(t, status.Encrypted)
	require.Contains(t, status.State.Channels, "C1")
	assert.Equal(t, 1, status.State.Channels["C1"].MessageCount)
}

func TestMessageLimitCapsFetch(t *testing.T) {
	var history []*messagedomain.Message
	for i := 0; i < 20; i++ {
		history = append(history, msg("C1", "general", fmt.Sprintf("10%02d.000100", i), "dana", fmt.Sprintf("m%d", i)))
	}
	chat := &fakeChat{
		channels: []messagedomain.Channel{{ID: "C1", Name: "general", IsMember: true}},
		history:  map[string][]*messagedomain.Message{"C1": history},
	}
	fx := newEngine(t, chat, VariantConfig{})

	report, err := fx.usecase.SyncAll(context.Background(), SyncOptions{MessageLimit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, report.MessagesIndexed)
}
