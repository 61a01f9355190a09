package router

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/handler"
)

func SetupMessageRouter(v1 *echo.Group, messageHandler *handler.MessageHandler, m Middlewares) {
	messages := v1.Group("/messages", m.Auth.Authenticate, m.Profile.RequireProfile)

	messages.POST("", messageHandler.Send)
	messages.GET("/conversations", messageHandler.ListConversations)
	messages.GET("/unread-count", messageHandler.UnreadCount)
	messages.GET("/online", messageHandler.Online)
	messages.GET("/conversation/:counterpartId", messageHandler.GetConversation)
	messages.PUT("/conversation/:counterpartId/read", messageHandler.MarkRead)
	messages.DELETE("/:messageId", messageHandler.Delete)
}
