package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	messagedomain "workmind-backend/internal/message/domain"
	"workmind-backend/internal/message/repository"
	"workmind-backend/pkg/ai"
	"workmind-backend/pkg/chroma"
	"workmind-backend/pkg/crypto"

	"golang.org/x/sync/errgroup"
)

// VariantConfig binds one engine instance to its collection, state file and
// optional field cipher. The plaintext and encrypted variants are fully
// independent pipelines; their point ids never collide because the variant
// suffix participates in the id hash.
type VariantConfig struct {
	Collection        string
	Variant           string // "" for plaintext, "enc" for the encrypted variant
	Cipher            *crypto.FieldCipher
	ThreadConcurrency int
}

// messageUsecase implements MessageUsecase for a single variant
type messageUsecase struct {
	chat      ChatService
	embedder  ai.EmbeddingService
	store     VectorStore
	stateRepo repository.SyncStateRepository
	cfg       VariantConfig
}

// NewMessageUsecase creates an engine instance. All clients are constructed
// by the caller and passed in; the usecase holds no per-run mutable state.
func NewMessageUsecase(chat ChatService, embedder ai.EmbeddingService, store VectorStore, stateRepo repository.SyncStateRepository, cfg VariantConfig) MessageUsecase {
	if cfg.ThreadConcurrency <= 0 {
		cfg.ThreadConcurrency = 5
	}
	return &messageUsecase{
		chat:      chat,
		embedder:  embedder,
		store:     store,
		stateRepo: stateRepo,
		cfg:       cfg,
	}
}

// SyncAll runs the full sync loop: enumerate channels, fetch new messages
// since each channel's cursor, fan out thread replies, embed, upsert and
// checkpoint. Channels are processed in discovery order and a channel's
// messages are fully indexed before the next channel starts. Per-channel
// failures land in the report's error list and never abort the run; a
// non-nil error is returned only when enumeration or state loading itself
// fails.
func (u *messageUsecase) SyncAll(ctx context.Context, opts SyncOptions) (*messagedomain.SyncReport, error) {
	report := &messagedomain.SyncReport{Errors: []string{}}

	state, err := u.stateRepo.Load()
	if err != nil {
		return report, fmt.Errorf("failed to load sync state: %w", err)
	}

	log.Printf("[Sync] Starting run (collection=%s, threads=%v)", u.cfg.Collection, opts.WithThreads)

	it := u.chat.Channels()
	for {
		channel, err := it.Next(ctx)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("channel listing: %v", err))
			return report, fmt.Errorf("channel enumeration failed: %w", err)
		}
		if channel == nil {
			break
		}

		if err := u.syncChannel(ctx, channel, state, report, opts); err != nil {
			// Cursor was not advanced, the channel is retried in full next run
			log.Printf("[Sync] Channel %s failed: %v", channel.Name, err)
			report.ChannelsFailed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", channel.Name, err))
			continue
		}
		report.ChannelsProcessed++
	}

	state.LastFullSync = time.Now().UTC()
	if err := u.stateRepo.Save(state); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("final state save: %v", err))
	}

	log.Printf("[Sync] Run complete: %d channels, %d indexed, %d thread replies, %d errors",
		report.ChannelsProcessed, report.MessagesIndexed, report.ThreadRepliesIndexed, len(report.Errors))

	return report, nil
}

// syncChannel fetches, embeds and upserts one channel's new messages, then
// writes the checkpoint. Any error leaves the channel's cursor untouched.
func (u *messageUsecase) syncChannel(ctx context.Context, channel *messagedomain.Channel, state *messagedomain.SyncState, report *messagedomain.SyncReport, opts SyncOptions) error {
	cursor := ""
	if cs, ok := state.Channels[channel.ID]; ok {
		cursor = cs.LastSyncedTimestamp
	}

	messages, err := u.chat.FetchMessages(ctx, channel.ID, channel.Name, cursor, opts.MessageLimit)
	if err != nil {
		return err
	}
	report.MessagesFetched += len(messages)

	threadReplies := 0
	if opts.WithThreads {
		var roots []*messagedomain.Message
		for _, m := range messages {
			if m.IsThreadParent {
				roots = append(roots, m)
			}
		}
		if len(roots) > 0 {
			replies, err := u.fetchThreads(ctx, channel, roots)
			if err != nil {
				return err
			}
			// Broadcast replies also appear in channel history; keep one copy
			seen := make(map[string]bool, len(messages))
			for _, m := range messages {
				seen[m.Timestamp] = true
			}
			for _, r := range replies {
				if seen[r.Timestamp] {
					report.MessagesSkipped++
					continue
				}
				seen[r.Timestamp] = true
				messages = append(messages, r)
				threadReplies++
			}
			sort.Slice(messages, func(i, j int) bool {
				return messages[i].Timestamp < messages[j].Timestamp
			})
		}
	}

	if len(messages) > 0 {
		texts := make([]string, len(messages))
		for i, m := range messages {
			texts[i] = m.FormatForEmbedding()
		}

		vectors, err := u.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding failed: %w", err)
		}
		if len(vectors) != len(messages) {
			return fmt.Errorf("embedding count mismatch: %d vectors for %d messages", len(vectors), len(messages))
		}

		points := make([]chroma.Point, len(messages))
		for i, m := range messages {
			payload := messagedomain.PayloadFromMessage(m)
			if u.cfg.Cipher != nil {
				if err := encryptPayload(u.cfg.Cipher, &payload); err != nil {
					return fmt.Errorf("payload encryption failed: %w", err)
				}
			}
			points[i] = chroma.Point{
				ID:      chroma.PointID(m.ChannelID, m.Timestamp, u.cfg.Variant),
				Vector:  vectors[i],
				Payload: payload.ToMap(),
				Text:    payload.Text,
			}
		}

		if err := u.store.Upsert(ctx, u.cfg.Collection, points); err != nil {
			return fmt.Errorf("upsert failed: %w", err)
		}

		report.MessagesIndexed += len(points)
		report.ThreadRepliesIndexed += threadReplies
	}

	// Checkpoint immediately, before moving to the next channel
	cs, ok := state.Channels[channel.ID]
	if !ok {
		cs = &messagedomain.ChannelSyncState{ChannelID: channel.ID}
		state.Channels[channel.ID] = cs
	}
	cs.ChannelName = channel.Name
	cs.LastSyncTime = time.Now().UTC()
	cs.MessageCount += len(messages)
	state.TotalMessages += len(messages)
	if maxTS := maxTimestamp(messages); maxTS != "" && timestampValue(maxTS) > timestampValue(cs.LastSyncedTimestamp) {
		cs.LastSyncedTimestamp = maxTS
	}

	if err := u.stateRepo.Save(state); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}

	log.Printf("[Sync] Channel %s: %d new messages (%d thread replies), cursor %s",
		channel.Name, len(messages), threadReplies, cs.LastSyncedTimestamp)

	return nil
}

// fetchThreads fetches replies for a batch of thread roots on a bounded
// worker pool. Each task appends only to its own result slot; the slots are
// merged after the pool drains, so no mutable state is shared between tasks.
// Progress and ETA come from a running average of completed-thread latency.
func (u *messageUsecase) fetchThreads(ctx context.Context, channel *messagedomain.Channel, roots []*messagedomain.Message) ([]*messagedomain.Message, error) {
	results := make([][]*messagedomain.Message, len(roots))
	semaphore := make(chan struct{}, u.cfg.ThreadConcurrency)

	var mu sync.Mutex
	var completed int
	var totalLatency time.Duration

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			// Queued tasks bail here once a sibling has failed
			select {
			case semaphore <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-semaphore }()

			start := time.Now()
			replies, err := u.chat.FetchThreadReplies(gctx, channel.ID, channel.Name, root.Timestamp)
			if err != nil {
				return err
			}
			results[i] = replies

			mu.Lock()
			completed++
			totalLatency += time.Since(start)
			if completed%10 == 0 || completed == len(roots) {
				avg := totalLatency / time.Duration(completed)
				remaining := len(roots) - completed
				eta := avg * time.Duration(remaining) / time.Duration(u.cfg.ThreadConcurrency)
				log.Printf("[Sync] Threads %d/%d in %s (avg %s, eta %s)",
					completed, len(roots), channel.Name, avg.Round(time.Millisecond), eta.Round(time.Second))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("thread fetch failed: %w", err)
	}

	var merged []*messagedomain.Message
	for _, replies := range results {
		merged = append(merged, replies...)
	}
	return merged, nil
}

// encryptPayload replaces the free-text fields with ciphertext. Identity and
// filter fields (channel id, timestamps) stay plaintext so search predicates
// keep working. Empty optional fields stay empty rather than becoming an
// encrypted empty string.
func encryptPayload(cipher *crypto.FieldCipher, p *messagedomain.MessagePayload) error {
	for _, field := range []*string{&p.Text, &p.UserName, &p.ChannelName} {
		if *field == "" {
			continue
		}
		encrypted, err := cipher.Encrypt(*field)
		if err != nil {
			return err
		}
		*field = encrypted
	}
	return nil
}

// decryptPayload inverts encryptPayload
func decryptPayload(cipher *crypto.FieldCipher, p *messagedomain.MessagePayload) error {
	for _, field := range []*string{&p.Text, &p.UserName, &p.ChannelName} {
		if *field == "" {
			continue
		}
		decrypted, err := cipher.Decrypt(*field)
		if err != nil {
			return err
		}
		*field = decrypted
	}
	return nil
}

func maxTimestamp(messages []*messagedomain.Message) string {
	max := ""
	for _, m := range messages {
		if timestampValue(m.Timestamp) > timestampValue(max) {
			max = m.Timestamp
		}
	}
	return max
}

func timestampValue(ts string) float64 {
	if ts == "" {
		return 0
	}
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return v
}
