package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egresados/internal/domain/entity"
)

func newTestServer(t *testing.T, m *Manager) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(conn)
		c.Authenticate(&entity.ParticipantSummary{ID: id, FirstName: id})
		m.Serve(c)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?id=" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestServe_EndToEnd(t *testing.T) {
	m := NewManager(NewRegistry())
	srv := newTestServer(t, m)

	a1 := dial(t, srv, "a")
	assert.Equal(t, EventPresenceSnap, readFrame(t, a1).Type)

	b := dial(t, srv, "b")
	assert.Equal(t, EventPresenceSnap, readFrame(t, b).Type)
	assert.Equal(t, EventPresenceOnline, readFrame(t, a1).Type)

	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(`{"type":"typing:start","data":{"recipient_id":"a"}}`)))
	assert.Equal(t, EventTypingStart, readFrame(t, a1).Type)

	a2 := dial(t, srv, "a")
	assert.Equal(t, EventPresenceSnap, readFrame(t, a2).Type)

	a1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := a1.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, ReasonSessionReplaced, closeErr.Text)

	require.Eventually(t, func() bool { return m.IsOnline("a") }, time.Second, 10*time.Millisecond)

	require.NoError(t, b.Close())
	f := readFrame(t, a2)
	assert.Equal(t, EventPresenceOffline, f.Type)
	var presence PresenceData
	require.NoError(t, json.Unmarshal(f.Data, &presence))
	assert.Equal(t, "b", presence.ParticipantID)
}
