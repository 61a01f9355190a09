package entity

import "time"

type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsMine    bool      `json:"is_mine"`
}

// ConversationSummary is a read-time projection over Message; it is never stored.
type ConversationSummary struct {
	Counterpart *ParticipantSummary `json:"counterpart"`
	LastMessage LastMessage         `json:"last_message"`
	UnreadCount int64               `json:"unread_count"`
}
