package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) messages() *firestore.CollectionRef {
	return r.client.Collection(messagesCollection)
}

// sent is every message from -> to that the sender still sees.
func (r *firestoreMessageRepository) sent(from, to string) firestore.Query {
	return r.messages().
		Where("senderId", "==", from).
		Where("recipientId", "==", to).
		Where("deletedBySender", "==", false)
}

// received is every message from -> to that the recipient still sees.
func (r *firestoreMessageRepository) received(from, to string) firestore.Query {
	return r.messages().
		Where("senderId", "==", from).
		Where("recipientId", "==", to).
		Where("deletedByRecipient", "==", false)
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.messages().Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreMessageRepository) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	doc, err := r.messages().Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError(err, "Message", "get message")
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

// ListBetween merges the newest offset+limit messages of each direction, so a page
// never reads more than that many documents per side.
func (r *firestoreMessageRepository) ListBetween(ctx context.Context, selfID, counterpartID string, limit, offset int) ([]*entity.Message, int64, error) {
	halves := []firestore.Query{r.sent(selfID, counterpartID), r.received(counterpartID, selfID)}

	var all []*entity.Message
	var total int64
	for _, half := range halves {
		n, err := count(ctx, half)
		if err != nil {
			return nil, 0, errors.Internal("Failed to count messages", err)
		}
		total += n

		query := half.OrderBy("createdAt", firestore.Desc)
		if limit > 0 {
			query = query.Limit(offset + limit)
		}
		found, err := collect[entity.Message](query.Documents(ctx))
		if err != nil {
			return nil, 0, errors.Internal("Failed to list messages", err)
		}
		all = append(all, found...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return window(all, limit, offset), total, nil
}

func (r *firestoreMessageRepository) unreadFrom(from, to string) firestore.Query {
	return r.received(from, to).Where("read", "==", false)
}

func (r *firestoreMessageRepository) MarkRead(ctx context.Context, selfID, counterpartID string) (int64, error) {
	docs, err := r.unreadFrom(counterpartID, selfID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to list unread messages", err)
	}

	var marked int64
	for _, doc := range docs {
		if _, err := doc.Ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			return marked, firestoreError(err, "Message", "mark message read")
		}
		marked++
	}
	return marked, nil
}

func (r *firestoreMessageRepository) MarkDeleted(ctx context.Context, id string, party entity.Party) (*repository.DeleteOutcome, error) {
	field := "deletedBySender"
	if party == entity.PartyRecipient {
		field = "deletedByRecipient"
	} else if party != entity.PartySender {
		return nil, errors.Forbidden("Not a participant of this message", nil)
	}

	ref := r.messages().Doc(id)
	var outcome *repository.DeleteOutcome

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		outcome = &repository.DeleteOutcome{}

		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return err
		}
		outcome.Message = &message

		if !message.MarkDeletedBy(party) {
			return nil
		}
		outcome.Changed = true

		if message.DeletedByBoth() {
			outcome.Purged = true
			return tx.Delete(ref)
		}
		return tx.Update(ref, []firestore.Update{{Path: field, Value: true}})
	})
	if err != nil {
		return nil, firestoreError(err, "Message", "delete message")
	}
	return outcome, nil
}

func (r *firestoreMessageRepository) Counterparts(ctx context.Context, selfID string) ([]string, error) {
	sent, err := collect[entity.Message](r.messages().
		Where("senderId", "==", selfID).
		Where("deletedBySender", "==", false).
		Select("recipientId").
		Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list counterparts", err)
	}

	received, err := collect[entity.Message](r.messages().
		Where("recipientId", "==", selfID).
		Where("deletedByRecipient", "==", false).
		Select("senderId").
		Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list counterparts", err)
	}

	ids := make([]string, 0, len(sent)+len(received))
	for _, m := range sent {
		ids = append(ids, m.RecipientID)
	}
	for _, m := range received {
		ids = append(ids, m.SenderID)
	}
	return mergeIDs(ids), nil
}

func (r *firestoreMessageRepository) latest(ctx context.Context, query firestore.Query) (*entity.Message, error) {
	found, err := collect[entity.Message](query.OrderBy("createdAt", firestore.Desc).Limit(1).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to get last message", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *firestoreMessageRepository) LastBetween(ctx context.Context, selfID, counterpartID string) (*entity.Message, error) {
	mine, err := r.latest(ctx, r.sent(selfID, counterpartID))
	if err != nil {
		return nil, err
	}
	theirs, err := r.latest(ctx, r.received(counterpartID, selfID))
	if err != nil {
		return nil, err
	}

	switch {
	case mine == nil:
		return theirs, nil
	case theirs == nil:
		return mine, nil
	case theirs.CreatedAt.After(mine.CreatedAt):
		return theirs, nil
	case mine.CreatedAt.Equal(theirs.CreatedAt) && theirs.ID > mine.ID:
		return theirs, nil
	default:
		return mine, nil
	}
}

func (r *firestoreMessageRepository) CountUnreadFrom(ctx context.Context, selfID, counterpartID string) (int64, error) {
	n, err := count(ctx, r.unreadFrom(counterpartID, selfID))
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return n, nil
}

func (r *firestoreMessageRepository) CountUnread(ctx context.Context, selfID string) (int64, error) {
	n, err := count(ctx, r.messages().
		Where("recipientId", "==", selfID).
		Where("read", "==", false).
		Where("deletedByRecipient", "==", false))
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return n, nil
}
