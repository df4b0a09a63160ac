package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Visibility classifies a channel
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityDirect  Visibility = "direct"
	VisibilityGroup   Visibility = "group"
)

// Channel is a named conduit of messages in the chat workspace.
// Channels are not persisted; they are re-discovered on every run.
type Channel struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	IsMember   bool       `json:"is_member"`
}

// Message is a single chat message. Identity is (ChannelID, Timestamp);
// the timestamp is unique within a channel.
type Message struct {
	ChannelID       string `json:"channel_id"`
	ChannelName     string `json:"channel_name"`
	Timestamp       string `json:"timestamp"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	Text            string `json:"text"`
	ThreadTimestamp string `json:"thread_timestamp,omitempty"`
	IsThreadParent  bool   `json:"is_thread_parent"`
}

// TimestampValue parses the platform timestamp ("1712345678.000100") into a
// float for numeric range filtering. Returns 0 for unparseable input.
func (m *Message) TimestampValue() float64 {
	v, err := strconv.ParseFloat(m.Timestamp, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatForEmbedding renders the message as "{author}: {text} [in #{channel}] [{date}]"
// omitting absent fields, so author/channel/date context participates in the embedding.
func (m *Message) FormatForEmbedding() string {
	var b strings.Builder
	if m.UserName != "" {
		b.WriteString(m.UserName)
		b.WriteString(": ")
	}
	b.WriteString(m.Text)
	if m.ChannelName != "" {
		fmt.Fprintf(&b, " [in #%s]", m.ChannelName)
	}
	if ts := m.TimestampValue(); ts > 0 {
		fmt.Fprintf(&b, " [%s]", time.Unix(int64(ts), 0).UTC().Format("2006-01-02"))
	}
	return b.String()
}
