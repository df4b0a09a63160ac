package domain

import (
	"fmt"
)

// PayloadVersion is the schema version stamped on every vector point payload.
// The index layer performs no automatic migration between versions.
const PayloadVersion = 1

// MessagePayload is the structured metadata attached to a vector point.
// In the encrypted variant the free-text fields (UserName, Text, ChannelName)
// hold "iv:authTag:ciphertext" strings instead of plaintext.
type MessagePayload struct {
	ChannelID       string  `json:"channel_id"`
	ChannelName     string  `json:"channel_name"`
	Timestamp       string  `json:"timestamp"`
	TimestampValue  float64 `json:"timestamp_value"`
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	Text            string  `json:"text"`
	ThreadTimestamp string  `json:"thread_timestamp,omitempty"`
	IsThreadParent  bool    `json:"is_thread_parent"`
	Version         int     `json:"version"`
}

// PayloadFromMessage builds the point payload for a message
func PayloadFromMessage(m *Message) MessagePayload {
	return MessagePayload{
		ChannelID:       m.ChannelID,
		ChannelName:     m.ChannelName,
		Timestamp:       m.Timestamp,
		TimestampValue:  m.TimestampValue(),
		UserID:          m.UserID,
		UserName:        m.UserName,
		Text:            m.Text,
		ThreadTimestamp: m.ThreadTimestamp,
		IsThreadParent:  m.IsThreadParent,
		Version:         PayloadVersion,
	}
}

// ToMap flattens the payload for vector-store metadata. timestamp_seconds
// is a derived integer copy of timestamp_value: metadata range filters on
// floats go through float32 and lose second-level precision at epoch scale,
// so range predicates filter on the integer field instead.
func (p MessagePayload) ToMap() map[string]interface{} {
	meta := map[string]interface{}{
		"channel_id":        p.ChannelID,
		"channel_name":      p.ChannelName,
		"timestamp":         p.Timestamp,
		"timestamp_value":   p.TimestampValue,
		"timestamp_seconds": int(p.TimestampValue),
		"user_id":           p.UserID,
		"user_name":         p.UserName,
		"text":              p.Text,
		"is_thread_parent":  p.IsThreadParent,
		"version":           p.Version,
	}
	if p.ThreadTimestamp != "" {
		meta["thread_timestamp"] = p.ThreadTimestamp
	}
	return meta
}

// PayloadFromMap deserializes vector-store metadata and validates it.
// Metadata is never trusted implicitly: the required fields and the schema
// version are checked before the payload is used.
func PayloadFromMap(meta map[string]interface{}) (*MessagePayload, error) {
	p := &MessagePayload{}

	var ok bool
	if p.ChannelID, ok = meta["channel_id"].(string); !ok || p.ChannelID == "" {
		return nil, fmt.Errorf("payload missing channel_id")
	}
	if p.Timestamp, ok = meta["timestamp"].(string); !ok || p.Timestamp == "" {
		return nil, fmt.Errorf("payload missing timestamp")
	}

	p.ChannelName, _ = meta["channel_name"].(string)
	p.UserID, _ = meta["user_id"].(string)
	p.UserName, _ = meta["user_name"].(string)
	p.Text, _ = meta["text"].(string)
	p.ThreadTimestamp, _ = meta["thread_timestamp"].(string)
	p.IsThreadParent, _ = meta["is_thread_parent"].(bool)
	p.TimestampValue = toFloat(meta["timestamp_value"])

	version := toFloat(meta["version"])
	if version == 0 {
		return nil, fmt.Errorf("payload missing version")
	}
	p.Version = int(version)
	if p.Version != PayloadVersion {
		return nil, fmt.Errorf("unsupported payload version %d (expected %d)", p.Version, PayloadVersion)
	}

	return p, nil
}

// toFloat tolerates the numeric types a JSON round trip may produce
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
