package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
)

const visibleBetween = "(sender_id = ? AND recipient_id = ? AND deleted_by_sender = ?) OR " +
	"(sender_id = ? AND recipient_id = ? AND deleted_by_recipient = ?)"

type sqlMessageRepository struct {
	db *gorm.DB
}

func NewSQLMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &sqlMessageRepository{db: db}
}

func (r *sqlMessageRepository) between(ctx context.Context, selfID, counterpartID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&entity.Message{}).
		Where(visibleBetween, selfID, counterpartID, false, counterpartID, selfID, false)
}

func (r *sqlMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	return sqlError(r.db.WithContext(ctx).Create(message).Error, "Message", "create message")
}

func (r *sqlMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	var message entity.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, sqlError(err, "Message", "get message")
	}
	return &message, nil
}

func (r *sqlMessageRepository) ListBetween(ctx context.Context, selfID, counterpartID string, limit, offset int) ([]*entity.Message, int64, error) {
	var total int64
	if err := r.between(ctx, selfID, counterpartID).Count(&total).Error; err != nil {
		return nil, 0, sqlError(err, "Message", "count messages")
	}

	var messages []*entity.Message
	query := r.between(ctx, selfID, counterpartID).Order("created_at DESC, id DESC")
	err := paginate(query, limit, offset).Find(&messages).Error
	if err != nil {
		return nil, 0, sqlError(err, "Message", "list messages")
	}
	return messages, total, nil
}

func (r *sqlMessageRepository) MarkRead(ctx context.Context, selfID, counterpartID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ? AND deleted_by_recipient = ?", counterpartID, selfID, false, false).
		Update("read", true)
	if result.Error != nil {
		return 0, sqlError(result.Error, "Message", "mark messages read")
	}
	return result.RowsAffected, nil
}

func (r *sqlMessageRepository) MarkDeleted(ctx context.Context, id string, party entity.Party) (*repository.DeleteOutcome, error) {
	column := "deleted_by_sender"
	if party == entity.PartyRecipient {
		column = "deleted_by_recipient"
	} else if party != entity.PartySender {
		return nil, errors.Forbidden("Not a participant of this message", nil)
	}

	outcome := &repository.DeleteOutcome{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message entity.Message
		if err := tx.First(&message, "id = ?", id).Error; err != nil {
			return err
		}
		outcome.Message = &message

		if !message.MarkDeletedBy(party) {
			return nil
		}
		outcome.Changed = true

		if message.DeletedByBoth() {
			outcome.Purged = true
			return tx.Delete(&entity.Message{}, "id = ?", id).Error
		}
		return tx.Model(&entity.Message{}).Where("id = ?", id).Update(column, true).Error
	})
	if err != nil {
		return nil, sqlError(err, "Message", "delete message")
	}
	return outcome, nil
}

func (r *sqlMessageRepository) Counterparts(ctx context.Context, selfID string) ([]string, error) {
	var sentTo, receivedFrom []string

	err := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("sender_id = ? AND deleted_by_sender = ?", selfID, false).
		Distinct().
		Pluck("recipient_id", &sentTo).Error
	if err != nil {
		return nil, sqlError(err, "Message", "list counterparts")
	}

	err = r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("recipient_id = ? AND deleted_by_recipient = ?", selfID, false).
		Distinct().
		Pluck("sender_id", &receivedFrom).Error
	if err != nil {
		return nil, sqlError(err, "Message", "list counterparts")
	}

	return mergeIDs(sentTo, receivedFrom), nil
}

func (r *sqlMessageRepository) LastBetween(ctx context.Context, selfID, counterpartID string) (*entity.Message, error) {
	var messages []*entity.Message
	err := r.between(ctx, selfID, counterpartID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&messages).Error
	if err != nil {
		return nil, sqlError(err, "Message", "get last message")
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return messages[0], nil
}

func (r *sqlMessageRepository) CountUnreadFrom(ctx context.Context, selfID, counterpartID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ? AND deleted_by_recipient = ?", counterpartID, selfID, false, false).
		Count(&count).Error
	if err != nil {
		return 0, sqlError(err, "Message", "count unread messages")
	}
	return count, nil
}

func (r *sqlMessageRepository) CountUnread(ctx context.Context, selfID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("recipient_id = ? AND read = ? AND deleted_by_recipient = ?", selfID, false, false).
		Count(&count).Error
	if err != nil {
		return 0, sqlError(err, "Message", "count unread messages")
	}
	return count, nil
}

// mergeIDs returns the union of both lists, keeping first-seen order.
func mergeIDs(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
