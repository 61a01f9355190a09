package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/middleware"
	"egresados/internal/domain/entity"
	ws "egresados/internal/infrastructure/websocket"
	"egresados/pkg/logger"
	"egresados/pkg/response"
)

type ConnectionAuthenticator interface {
	AuthenticateConnection(ctx context.Context, token string) (*entity.ParticipantSummary, error)
}

type WebSocketHandler struct {
	wsManager *ws.Manager
	auth      ConnectionAuthenticator
	upgrader  gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager, auth ConnectionAuthenticator, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		auth:      auth,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker accepts requests without an Origin header, any origin for "*",
// and otherwise only the listed origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// HandleWebSocket authenticates before upgrading so rejected clients get a JSON reason.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token, ok := middleware.BearerToken(c.Request().Header.Get("Authorization"))
	if !ok {
		token = c.QueryParam("token")
	}

	identity, err := h.auth.AuthenticateConnection(c.Request().Context(), token)
	if err != nil {
		logger.Debug("WebSocket: handshake rejected: %v", err)
		return response.Error(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket: upgrade failed for %s: %v", identity.ID, err)
		return nil
	}

	client := ws.NewClient(conn)
	client.Authenticate(identity)
	h.wsManager.Serve(client)
	return nil
}
