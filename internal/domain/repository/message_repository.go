package repository

import (
	"context"

	"egresados/internal/domain/entity"
)

// DeleteOutcome reports what MarkDeleted did to a message.
type DeleteOutcome struct {
	Message *entity.Message
	Changed bool
	Purged  bool
}

// MessageRepository stores direct messages. Every query taking selfID only sees messages
// that selfID has not deleted on its side.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)

	// ListBetween returns the pair's messages newest first.
	ListBetween(ctx context.Context, selfID, counterpartID string, limit, offset int) ([]*entity.Message, int64, error)
	// MarkRead flags every unread message from counterpartID to selfID as read.
	MarkRead(ctx context.Context, selfID, counterpartID string) (int64, error)
	// MarkDeleted sets the party's flag and removes the record once both flags are set.
	// It runs as a single transaction so concurrent calls purge at most once.
	MarkDeleted(ctx context.Context, id string, party entity.Party) (*DeleteOutcome, error)

	Counterparts(ctx context.Context, selfID string) ([]string, error)
	// LastBetween returns nil when no visible message exists.
	LastBetween(ctx context.Context, selfID, counterpartID string) (*entity.Message, error)
	CountUnreadFrom(ctx context.Context, selfID, counterpartID string) (int64, error)
	CountUnread(ctx context.Context, selfID string) (int64, error)
}
