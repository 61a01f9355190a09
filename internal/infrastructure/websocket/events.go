package websocket

import (
	"encoding/json"
	"time"
)

// Event types exchanged over the realtime channel.
const (
	EventTypingStart     = "typing:start"
	EventTypingStop      = "typing:stop"
	EventMessageNew      = "message:new"
	EventMessageRead     = "message:read"
	EventMessageDeleted  = "message:deleted"
	EventPresenceOnline  = "presence:online"
	EventPresenceOffline = "presence:offline"
	EventPresenceSnap    = "presence:snapshot"
	EventPing            = "ping"
	EventPong            = "pong"
	EventError           = "error"
)

const typingTTL = 5 * time.Second

// WSMessage is the envelope of every frame.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type TypingRequest struct {
	RecipientID string `json:"recipient_id"`
}

type TypingData struct {
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

type ReadReceiptData struct {
	ReaderID string `json:"reader_id"`
	Count    int64  `json:"count"`
}

type MessageDeletedData struct {
	MessageID string `json:"message_id"`
	DeletedBy string `json:"deleted_by"`
	Purged    bool   `json:"purged"`
}

type PresenceData struct {
	ParticipantID string `json:"participant_id"`
}

type SnapshotData struct {
	Online []string `json:"online"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func encode(eventType string, data interface{}, now time.Time) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}
