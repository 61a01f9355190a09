package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"egresados/internal/domain/entity"
	"egresados/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// State is the lifecycle position of a connection.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateActive:
		return "active"
	default:
		return "disconnected"
	}
}

// Client represents a WebSocket connection client
type Client struct {
	Identity *entity.ParticipantSummary

	conn  *websocket.Conn
	send  chan []byte
	done  chan struct{}
	state atomic.Int32
	token uint64

	closeOnce   sync.Once
	closeReason string
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *Client) ParticipantID() string {
	if c.Identity == nil {
		return ""
	}
	return c.Identity.ID
}

func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) transition(from, to State) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}

// Authenticate attaches the resolved identity and moves the client out of Connecting.
func (c *Client) Authenticate(identity *entity.ParticipantSummary) bool {
	if identity == nil || identity.ID == "" {
		return false
	}
	if !c.transition(StateConnecting, StateAuthenticated) {
		return false
	}
	c.Identity = identity
	return true
}

// Deliver implements Handle. A full buffer drops the frame.
func (c *Client) Deliver(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	default:
		logger.Warn("WebSocket: send buffer full for %s, dropping frame", c.ParticipantID())
		return false
	}
}

// Close implements Handle.
func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		c.closeReason = reason
		close(c.done)
	})
}

// readPump feeds every frame to handle until the peer goes away.
func (c *Client) readPump(handle func([]byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for %s: %v", c.ParticipantID(), err)
			}
			return
		}
		handle(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error for %s: %v", c.ParticipantID(), err)
				c.Close("")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close("")
				return
			}

		case <-c.done:
			code := websocket.CloseNormalClosure
			if c.closeReason != "" {
				code = websocket.ClosePolicyViolation
			}
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(code, c.closeReason),
				time.Now().Add(writeWait))
			return
		}
	}
}
