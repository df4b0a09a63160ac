package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	messagedomain "workmind-backend/internal/message/domain"
)

// Search embeds the query and runs a filtered nearest-neighbor search.
// Results are ordered by descending score and every returned score is at
// least opts.MinScore. The encrypted variant decrypts payloads before
// returning them; callers never see ciphertext.
func (u *messageUsecase) Search(ctx context.Context, query string, opts messagedomain.SearchOptions) ([]messagedomain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []messagedomain.SearchResult{}, nil
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	vectors, err := u.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	hits, err := u.store.Query(ctx, u.cfg.Collection, vectors[0], opts.Limit, opts.Channel, opts.FromTS, opts.ToTS)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]messagedomain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < opts.MinScore {
			continue
		}
		payload, err := messagedomain.PayloadFromMap(hit.Metadata)
		if err != nil {
			log.Printf("[Search] Skipping point %s: %v", hit.ID, err)
			continue
		}
		// The store's range filter is second-granular; enforce the exact bounds
		if !inRange(payload.TimestampValue, opts.FromTS, opts.ToTS) {
			continue
		}
		if u.cfg.Cipher != nil {
			if err := decryptPayload(u.cfg.Cipher, payload); err != nil {
				log.Printf("[Search] Skipping point %s: %v", hit.ID, err)
				continue
			}
		}
		results = append(results, messagedomain.SearchResult{
			PointID: hit.ID,
			Score:   hit.Score,
			Payload: *payload,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// Context returns all indexed messages of a channel within ±windowMinutes of
// centerTS, sorted chronologically, to reconstruct the conversation around a
// search hit.
func (u *messageUsecase) Context(ctx context.Context, channelID, centerTS string, windowMinutes int) ([]messagedomain.MessagePayload, error) {
	center := timestampValue(centerTS)
	if center == 0 {
		return nil, fmt.Errorf("invalid center timestamp: %s", centerTS)
	}
	if windowMinutes <= 0 {
		windowMinutes = 30
	}

	window := float64(windowMinutes) * 60
	metadatas, err := u.store.GetByTimeRange(ctx, u.cfg.Collection, channelID, center-window, center+window)
	if err != nil {
		return nil, fmt.Errorf("context fetch failed: %w", err)
	}

	payloads := make([]messagedomain.MessagePayload, 0, len(metadatas))
	for _, meta := range metadatas {
		payload, err := messagedomain.PayloadFromMap(meta)
		if err != nil {
			log.Printf("[Context] Skipping point: %v", err)
			continue
		}
		if !inRange(payload.TimestampValue, center-window, center+window) {
			continue
		}
		if u.cfg.Cipher != nil {
			if err := decryptPayload(u.cfg.Cipher, payload); err != nil {
				log.Printf("[Context] Skipping point: %v", err)
				continue
			}
		}
		payloads = append(payloads, *payload)
	}

	sort.Slice(payloads, func(i, j int) bool {
		return payloads[i].TimestampValue < payloads[j].TimestampValue
	})

	return payloads, nil
}

// inRange checks a timestamp against optional inclusive bounds (0 = unbounded)
func inRange(ts, fromTS, toTS float64) bool {
	if fromTS > 0 && ts < fromTS {
		return false
	}
	if toTS > 0 && ts > toTS {
		return false
	}
	return true
}

// Status reports the durable checkpoint plus the live index size
func (u *messageUsecase) Status(ctx context.Context) (*messagedomain.SyncStatus, error) {
	state, err := u.stateRepo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state: %w", err)
	}

	count, err := u.store.Count(ctx, u.cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to count indexed points: %w", err)
	}

	return &messagedomain.SyncStatus{
		State:        state,
		IndexedCount: count,
		Collection:   u.cfg.Collection,
		Encrypted:    u.cfg.Cipher != nil,
	}, nil
}

// Reset deletes the state file. The next run treats every channel as never
// synced; the full refetch is safe because point ids are deterministic and
// upserts are idempotent, so no duplicate points result.
func (u *messageUsecase) Reset(ctx context.Context) error {
	if err := u.stateRepo.Reset(); err != nil {
		return err
	}
	log.Printf("[Sync] State reset for collection %s", u.cfg.Collection)
	return nil
}
