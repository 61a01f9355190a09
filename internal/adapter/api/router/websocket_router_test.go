package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "egresados/internal/infrastructure/websocket"
)

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestWebSocketHandshake(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.e)
	t.Cleanup(srv.Close)

	incompleteToken, _, _ := app.account(t, "Ana", false)
	token, profileID, _ := app.account(t, "Beto", true)

	tests := []struct {
		name   string
		query  string
		header http.Header
	}{
		{"missing token", "", nil},
		{"invalid token", "?token=garbage", nil},
		{"incomplete profile", "?token=" + incompleteToken, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv, tt.query), tt.header)
			require.ErrorIs(t, err, gorillaws.ErrBadHandshake)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var env envelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		})
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv, ""), header)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Type string `json:"type"`
		Data struct {
			Online []string `json:"online"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, ws.EventPresenceSnap, frame.Type)
	assert.Equal(t, []string{profileID}, frame.Data.Online)

	assert.Eventually(t, func() bool { return app.manager.IsOnline(profileID) }, time.Second, 10*time.Millisecond)
}
