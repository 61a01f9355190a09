package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/handler"
	"egresados/internal/adapter/api/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Profile   *handler.ProfileHandler
	Post      *handler.PostHandler
	Comment   *handler.CommentHandler
	Message   *handler.MessageHandler
	Admin     *handler.AdminHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

type Middlewares struct {
	Auth    *middleware.AuthMiddleware
	Profile *middleware.ProfileMiddleware
	Admin   *middleware.AdminMiddleware
	// AuthLimit throttles the public auth endpoints; nil disables it.
	AuthLimit echo.MiddlewareFunc
}

// DefaultAuthLimit allows 20 auth requests per minute per IP.
func DefaultAuthLimit() echo.MiddlewareFunc {
	return middleware.IPRateLimit(20, 5, 10*time.Minute)
}

func Setup(e *echo.Echo, h Handlers, m Middlewares) {
	v1 := e.Group("/v1")

	SetupAuthRouter(v1, h.Auth, m)
	SetupProfileRouter(v1, h.Profile, m)
	SetupPostRouter(v1, h.Post, h.Comment, m)
	SetupMessageRouter(v1, h.Message, m)
	SetupAdminRouter(v1, h.Admin, m)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e, h.Health)
}

func limited(m Middlewares) []echo.MiddlewareFunc {
	if m.AuthLimit == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m.AuthLimit}
}
