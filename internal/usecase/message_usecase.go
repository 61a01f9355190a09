package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/internal/infrastructure/ratelimit"
	ws "egresados/internal/infrastructure/websocket"
	"egresados/pkg/errors"
	"egresados/pkg/logger"
	"egresados/pkg/utils"
)

// conversationWorkers bounds the per-counterpart lookups of ListConversations.
const conversationWorkers = 8

// ConversationPageSize is the default page size of OpenConversation.
const ConversationPageSize = 30

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	notifier    RealtimeNotifier
	limiter     RateLimiter
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
	notifier RealtimeNotifier,
	limiter RateLimiter,
) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		limiter:     limiter,
	}
}

// MessageView is a message with the display fields of both participants.
type MessageView struct {
	*entity.Message
	Sender    *entity.ParticipantSummary `json:"sender,omitempty"`
	Recipient *entity.ParticipantSummary `json:"recipient,omitempty"`
}

type ConversationPage struct {
	Messages    []*entity.Message `json:"messages"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

type DeleteResult struct {
	MessageID string `json:"message_id"`
	Purged    bool   `json:"purged"`
}

func (uc *MessageUseCase) SendMessage(ctx context.Context, senderID, recipientID, content string) (*MessageView, error) {
	if senderID == recipientID {
		return nil, errors.SelfTarget("You cannot send a message to yourself")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.Validation("Message content is required")
	}
	if utf8.RuneCountInString(content) > entity.MaxMessageLength {
		return nil, errors.Validation(fmt.Sprintf("Message cannot exceed %d characters", entity.MaxMessageLength))
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(senderID, ratelimit.ActionSendMessage); !ok {
			logger.Debug("Message: %s rate limited for %v", senderID, wait)
			return nil, errors.TooManyRequests("Too many messages, please wait a moment")
		}
	}

	participants, err := uc.profileRepo.GetByIDs(ctx, []string{senderID, recipientID})
	if err != nil {
		return nil, err
	}
	recipient, ok := participants[recipientID]
	if !ok {
		return nil, errors.NotFound("Recipient", nil)
	}

	message := &entity.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	view := &MessageView{Message: message, Recipient: recipient.Summary()}
	if sender, ok := participants[senderID]; ok {
		view.Sender = sender.Summary()
	}

	uc.notify(recipientID, ws.EventMessageNew, view)
	uc.notify(senderID, ws.EventMessageNew, view)
	return view, nil
}

// OpenConversation returns one page in chronological order and marks the page owner's
// unread messages from counterpartID as read.
func (uc *MessageUseCase) OpenConversation(ctx context.Context, selfID, counterpartID string, page, pageSize int) (*ConversationPage, error) {
	if selfID == counterpartID {
		return nil, errors.SelfTarget("You cannot open a conversation with yourself")
	}
	if _, err := uc.profileRepo.GetByID(ctx, counterpartID); err != nil {
		return nil, err
	}

	params := utils.NewPaginationParams(page, pageSize, ConversationPageSize)
	messages, total, err := uc.messageRepo.ListBetween(ctx, selfID, counterpartID, params.PageSize, params.Offset)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	marked, err := uc.markRead(ctx, selfID, counterpartID)
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		for _, m := range messages {
			if m.RecipientID == selfID {
				m.Read = true
			}
		}
	}

	return &ConversationPage{
		Messages:    messages,
		Total:       total,
		TotalPages:  utils.TotalPages(total, params.PageSize),
		CurrentPage: params.Page,
	}, nil
}

func (uc *MessageUseCase) MarkConversationRead(ctx context.Context, selfID, counterpartID string) (int64, error) {
	if selfID == counterpartID {
		return 0, errors.SelfTarget("You cannot read a conversation with yourself")
	}
	return uc.markRead(ctx, selfID, counterpartID)
}

func (uc *MessageUseCase) markRead(ctx context.Context, selfID, counterpartID string) (int64, error) {
	marked, err := uc.messageRepo.MarkRead(ctx, selfID, counterpartID)
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		uc.notify(counterpartID, ws.EventMessageRead, ws.ReadReceiptData{ReaderID: selfID, Count: marked})
	}
	return marked, nil
}

// DeleteMessage hides the message for the caller. The record is removed once both
// participants have deleted it. Repeating a delete is a no-op.
func (uc *MessageUseCase) DeleteMessage(ctx context.Context, callerID, messageID string) (*DeleteResult, error) {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	party := message.PartyOf(callerID)
	if party == entity.PartyNone {
		return nil, errors.Forbidden("You are not a participant of this message", nil)
	}

	outcome, err := uc.messageRepo.MarkDeleted(ctx, messageID, party)
	if err != nil {
		return nil, err
	}

	if outcome.Changed {
		uc.notify(message.Counterpart(callerID), ws.EventMessageDeleted, ws.MessageDeletedData{
			MessageID: messageID,
			DeletedBy: callerID,
			Purged:    outcome.Purged,
		})
	}
	return &DeleteResult{MessageID: messageID, Purged: outcome.Purged}, nil
}

func (uc *MessageUseCase) UnreadCount(ctx context.Context, selfID string) (int64, error) {
	return uc.messageRepo.CountUnread(ctx, selfID)
}

func (uc *MessageUseCase) OnlineParticipants() []string {
	if uc.notifier == nil {
		return []string{}
	}
	return uc.notifier.OnlineParticipants()
}

// ListConversations derives one summary per counterpart, newest conversation first.
func (uc *MessageUseCase) ListConversations(ctx context.Context, selfID string) ([]*entity.ConversationSummary, error) {
	counterparts, err := uc.messageRepo.Counterparts(ctx, selfID)
	if err != nil {
		return nil, err
	}

	lasts := make([]*entity.Message, len(counterparts))
	unread := make([]int64, len(counterparts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(conversationWorkers)
	for i, counterpartID := range counterparts {
		i, counterpartID := i, counterpartID
		g.Go(func() error {
			last, err := uc.messageRepo.LastBetween(gctx, selfID, counterpartID)
			if err != nil {
				return err
			}
			count, err := uc.messageRepo.CountUnreadFrom(gctx, selfID, counterpartID)
			if err != nil {
				return err
			}
			lasts[i] = last
			unread[i] = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profiles, err := uc.profileRepo.GetByIDs(ctx, counterparts)
	if err != nil {
		return nil, err
	}

	summaries := make([]*entity.ConversationSummary, 0, len(counterparts))
	for i, counterpartID := range counterparts {
		last := lasts[i]
		if last == nil {
			continue
		}

		counterpart := &entity.ParticipantSummary{ID: counterpartID}
		if p, ok := profiles[counterpartID]; ok {
			counterpart = p.Summary()
		}

		summaries = append(summaries, &entity.ConversationSummary{
			Counterpart: counterpart,
			LastMessage: entity.LastMessage{
				Content:   last.Content,
				CreatedAt: last.CreatedAt,
				IsMine:    last.SenderID == selfID,
			},
			UnreadCount: unread[i],
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})
	return summaries, nil
}

func (uc *MessageUseCase) notify(participantID, eventType string, data interface{}) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.SendTo(participantID, eventType, data)
}
