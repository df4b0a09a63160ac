package slack

import (
	"context"
	"fmt"
	"time"

	messagedomain "workmind-backend/internal/message/domain"

	"github.com/slack-go/slack"
)

// channelClasses are discovered in order: regular channels first, then DMs,
// then group DMs. Public and private channels share one listing call.
var channelClasses = [][]string{
	{"public_channel", "private_channel"},
	{"im"},
	{"mpim"},
}

// ChannelIterator is a pull-based, lazy stream of accessible channels.
// It advances its own pagination cursors internally and never buffers the
// full channel list; each new iterator rescans from fresh cursors.
type ChannelIterator struct {
	svc    *Service
	class  int
	cursor string
	buf    []messagedomain.Channel
	done   bool
	first  bool
}

// Channels returns a fresh iterator over all accessible channels
func (s *Service) Channels() *ChannelIterator {
	return &ChannelIterator{svc: s, first: true}
}

// Next returns the next accessible channel, or (nil, nil) once the stream is
// exhausted. Listing pages are paced with the configured inter-page delay to
// stay inside the platform rate budget. Platform errors propagate uncaught;
// there is no retry at this layer.
func (it *ChannelIterator) Next(ctx context.Context) (*messagedomain.Channel, error) {
	for {
		if len(it.buf) > 0 {
			ch := it.buf[0]
			it.buf = it.buf[1:]
			return &ch, nil
		}
		if it.done {
			return nil, nil
		}
		if err := it.fetchPage(ctx); err != nil {
			return nil, err
		}
	}
}

func (it *ChannelIterator) fetchPage(ctx context.Context) error {
	// Pace every page after the first
	if !it.first {
		select {
		case <-time.After(it.svc.pageDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	it.first = false

	params := &slack.GetConversationsParameters{
		Types:           channelClasses[it.class],
		Limit:           pageSize,
		Cursor:          it.cursor,
		ExcludeArchived: true,
	}

	channels, nextCursor, err := it.svc.client.GetConversationsContext(ctx, params)
	if err != nil {
		return fmt.Errorf("channel listing failed: %w", err)
	}

	for i := range channels {
		ch := convertChannel(&channels[i])
		if ch == nil {
			continue // caller is not a member
		}
		it.buf = append(it.buf, *ch)
	}

	if nextCursor == "" {
		it.class++
		it.cursor = ""
		if it.class >= len(channelClasses) {
			it.done = true
		}
	} else {
		it.cursor = nextCursor
	}

	return nil
}

// convertChannel classifies a conversation, returning nil for channels the
// caller is not a member of. DMs and group DMs are member-by-definition.
func convertChannel(ch *slack.Channel) *messagedomain.Channel {
	out := &messagedomain.Channel{
		ID:       ch.ID,
		Name:     ch.Name,
		IsMember: ch.IsMember,
	}

	switch {
	case ch.IsIM:
		out.Visibility = messagedomain.VisibilityDirect
		out.Name = ch.User
		out.IsMember = true
	case ch.IsMpIM:
		out.Visibility = messagedomain.VisibilityGroup
		out.IsMember = true
	case ch.IsPrivate:
		out.Visibility = messagedomain.VisibilityPrivate
	default:
		out.Visibility = messagedomain.VisibilityPublic
	}

	if !out.IsMember {
		return nil
	}
	return out
}
