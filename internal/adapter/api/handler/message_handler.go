package handler

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/middleware"
	"egresados/internal/usecase"
	"egresados/pkg/response"
	"egresados/pkg/utils"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type deleteMessageResponse struct {
	OK bool `json:"ok"`
	*usecase.DeleteResult
}

// Content length is checked after trimming in the use case.
type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Content     string `json:"content"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), middleware.ProfileID(c), req.RecipientID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *MessageHandler) ListConversations(c echo.Context) error {
	conversations, err := h.messageUseCase.ListConversations(c.Request().Context(), middleware.ProfileID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"conversations": conversations})
}

// GetConversation handles GET /messages/conversation/:counterpartId?page=&limit=
func (h *MessageHandler) GetConversation(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, usecase.ConversationPageSize)

	page, err := h.messageUseCase.OpenConversation(c.Request().Context(), middleware.ProfileID(c), c.Param("counterpartId"), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, page)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	count, err := h.messageUseCase.MarkConversationRead(c.Request().Context(), middleware.ProfileID(c), c.Param("counterpartId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"ok": true, "marked": count})
}

func (h *MessageHandler) Delete(c echo.Context) error {
	result, err := h.messageUseCase.DeleteMessage(c.Request().Context(), middleware.ProfileID(c), c.Param("messageId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, deleteMessageResponse{OK: true, DeleteResult: result})
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	count, err := h.messageUseCase.UnreadCount(c.Request().Context(), middleware.ProfileID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int64{"count": count})
}

func (h *MessageHandler) Online(c echo.Context) error {
	return response.Success(c, map[string][]string{"online": h.messageUseCase.OnlineParticipants()})
}
