package slack

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	messagedomain "workmind-backend/internal/message/domain"

	"github.com/slack-go/slack"
)

const pageSize = 200

// Service wraps the Slack web API for channel discovery and incremental
// history fetching. The user-name cache is process-wide and shared across
// all fetch calls.
type Service struct {
	client    *slack.Client
	pageDelay time.Duration

	userCache   map[string]string // user id -> display name
	userCacheMu sync.RWMutex
}

// NewService creates a Slack service using a read-scoped token
func NewService(token string, pageDelay time.Duration, opts ...slack.Option) *Service {
	return &Service{
		client:    slack.New(token, opts...),
		pageDelay: pageDelay,
		userCache: make(map[string]string),
	}
}

// UserName resolves a user id to a display name through the memoizing cache
func (s *Service) UserName(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}

	s.userCacheMu.RLock()
	name, ok := s.userCache[userID]
	s.userCacheMu.RUnlock()
	if ok {
		return name, nil
	}

	user, err := s.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("user lookup failed for %s: %w", userID, err)
	}

	name = user.Profile.DisplayName
	if name == "" {
		name = user.RealName
	}
	if name == "" {
		name = user.Name
	}

	s.userCacheMu.Lock()
	s.userCache[userID] = name
	s.userCacheMu.Unlock()

	return name, nil
}

// FetchMessages pages the full channel history for messages strictly newer
// than sinceCursor and returns them sorted oldest first. A limit caps the
// batch to the OLDEST limit messages: the API pages newest first, so the
// truncation happens after paging to the end, never by stopping early.
// Keeping the newest window instead would let the cursor jump past unfetched
// history and lose messages for good. Messages lacking author or text are
// dropped silently; they are non-content events.
func (s *Service) FetchMessages(ctx context.Context, channelID, channelName, sinceCursor string, limit int) ([]*messagedomain.Message, error) {
	var messages []*messagedomain.Message
	cursor := ""

	for {
		params := &slack.GetConversationHistoryParameters{
			ChannelID: channelID,
			Limit:     pageSize,
			Cursor:    cursor,
			Oldest:    sinceCursor,
			Inclusive: false,
		}

		resp, err := s.client.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("history fetch failed for %s: %w", channelID, err)
		}

		for i := range resp.Messages {
			msg, err := s.convertMessage(ctx, channelID, channelName, &resp.Messages[i])
			if err != nil {
				return nil, err
			}
			if msg == nil {
				continue
			}
			messages = append(messages, msg)
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			break
		}
		cursor = resp.ResponseMetaData.NextCursor
	}

	// The API returns newest first; the engine embeds oldest-forward
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	return messages, nil
}

// FetchThreadReplies returns the replies of a thread, excluding the root
func (s *Service) FetchThreadReplies(ctx context.Context, channelID, channelName, rootTS string) ([]*messagedomain.Message, error) {
	var replies []*messagedomain.Message
	cursor := ""

	for {
		params := &slack.GetConversationRepliesParameters{
			ChannelID: channelID,
			Timestamp: rootTS,
			Limit:     pageSize,
			Cursor:    cursor,
		}

		msgs, hasMore, nextCursor, err := s.client.GetConversationRepliesContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("thread fetch failed for %s/%s: %w", channelID, rootTS, err)
		}

		for i := range msgs {
			if msgs[i].Timestamp == rootTS {
				continue // the root is returned first; callers already have it
			}
			msg, err := s.convertMessage(ctx, channelID, channelName, &msgs[i])
			if err != nil {
				return nil, err
			}
			if msg == nil {
				continue
			}
			replies = append(replies, msg)
		}

		if !hasMore || nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	sort.Slice(replies, func(i, j int) bool {
		return replies[i].Timestamp < replies[j].Timestamp
	})

	return replies, nil
}

// convertMessage maps an API message to the domain type, resolving the author
// name through the cache. Returns nil for messages without author or text.
func (s *Service) convertMessage(ctx context.Context, channelID, channelName string, m *slack.Message) (*messagedomain.Message, error) {
	if m.User == "" || m.Text == "" {
		return nil, nil
	}

	userName, err := s.UserName(ctx, m.User)
	if err != nil {
		return nil, err
	}

	return &messagedomain.Message{
		ChannelID:       channelID,
		ChannelName:     channelName,
		Timestamp:       m.Timestamp,
		UserID:          m.User,
		UserName:        userName,
		Text:            m.Text,
		ThreadTimestamp: m.ThreadTimestamp,
		IsThreadParent:  m.ThreadTimestamp != "" && m.ThreadTimestamp == m.Timestamp,
	}, nil
}
