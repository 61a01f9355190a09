package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"egresados/internal/infrastructure/ratelimit"
	"egresados/pkg/logger"
)

const ReasonSessionReplaced = "session replaced"

// Manager routes realtime events between connections through the presence registry.
type Manager struct {
	registry   PresenceRegistry
	limiter    *ratelimit.RateLimiter
	relay      Relay
	instanceID string
	ctx        context.Context
	now        func() time.Time
}

type Option func(*Manager)

func WithRateLimiter(limiter *ratelimit.RateLimiter) Option {
	return func(m *Manager) { m.limiter = limiter }
}

// WithRelay shares targeted and broadcast events with other API instances.
func WithRelay(relay Relay) Option {
	return func(m *Manager) { m.relay = relay }
}

func NewManager(registry PresenceRegistry, opts ...Option) *Manager {
	m := &Manager{
		registry:   registry,
		instanceID: uuid.New().String(),
		ctx:        context.Background(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start binds the manager to the process lifetime and starts the relay subscription if any.
func (m *Manager) Start(ctx context.Context) {
	m.ctx = ctx
	if m.relay == nil {
		return
	}

	go func() {
		if err := m.relay.Subscribe(ctx, m.handleRelay); err != nil && ctx.Err() == nil {
			logger.Error("WebSocket: relay subscription stopped: %v", err)
		}
	}()
}

// Serve runs an authenticated client until it disconnects. It blocks.
func (m *Manager) Serve(c *Client) {
	if !m.Connect(c) {
		c.Close("connection not authenticated")
		go c.writePump()
		return
	}

	go c.writePump()
	stop := context.AfterFunc(m.ctx, func() { c.Close("server shutting down") })
	defer stop()

	c.readPump(func(raw []byte) { m.HandleClientMessage(c, raw) })
	c.Close("")
	m.Disconnect(c)
}

// Connect moves an Authenticated client to Active.
func (m *Manager) Connect(c *Client) bool {
	if !c.transition(StateAuthenticated, StateActive) {
		return false
	}

	id := c.ParticipantID()
	token, replaced := m.registry.Register(id, c)
	c.token = token

	if replaced != nil {
		replaced.Close(ReasonSessionReplaced)
		logger.Info("WebSocket: session for %s replaced by a newer connection", id)
	} else {
		m.Broadcast(EventPresenceOnline, PresenceData{ParticipantID: id}, id)
		logger.Info("WebSocket: %s is online", id)
	}

	m.deliver(c, EventPresenceSnap, SnapshotData{Online: m.registry.ListOnline()})
	return true
}

// Disconnect moves an Active client to Disconnected. A replaced session leaves no trace.
func (m *Manager) Disconnect(c *Client) {
	if !c.transition(StateActive, StateDisconnected) {
		c.state.Store(int32(StateDisconnected))
		return
	}

	id := c.ParticipantID()
	if !m.registry.Unregister(id, c.token) {
		logger.Debug("WebSocket: stale disconnect for %s ignored", id)
		return
	}

	m.Broadcast(EventPresenceOffline, PresenceData{ParticipantID: id}, id)
	logger.Info("WebSocket: %s is offline", id)
}

func (m *Manager) IsOnline(participantID string) bool {
	_, ok := m.registry.Lookup(participantID)
	return ok
}

func (m *Manager) OnlineParticipants() []string {
	return m.registry.ListOnline()
}

// SendTo delivers an event to one participant. Offline targets are dropped silently.
func (m *Manager) SendTo(participantID, eventType string, data interface{}) bool {
	payload, err := encode(eventType, data, m.now())
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", eventType, err)
		return false
	}

	if h, ok := m.registry.Lookup(participantID); ok {
		return h.Deliver(payload)
	}

	if m.relay != nil {
		m.publish(Envelope{Target: participantID, Payload: payload})
	}
	return false
}

// Broadcast delivers an event to every connection except the excluded participant.
func (m *Manager) Broadcast(eventType string, data interface{}, except string) {
	payload, err := encode(eventType, data, m.now())
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", eventType, err)
		return
	}

	m.deliverLocal(payload, except)
	if m.relay != nil {
		m.publish(Envelope{Except: except, Payload: payload})
	}
}

func (m *Manager) deliverLocal(payload []byte, except string) {
	m.registry.Each(func(id string, h Handle) bool {
		if id != except {
			h.Deliver(payload)
		}
		return true
	})
}

func (m *Manager) deliver(c *Client, eventType string, data interface{}) {
	payload, err := encode(eventType, data, m.now())
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", eventType, err)
		return
	}
	c.Deliver(payload)
}

func (m *Manager) publish(env Envelope) {
	env.Origin = m.instanceID
	if err := m.relay.Publish(m.ctx, env); err != nil {
		logger.Warn("WebSocket: relay publish failed: %v", err)
	}
}

func (m *Manager) handleRelay(env Envelope) {
	if env.Origin == m.instanceID {
		return
	}
	if env.Target != "" {
		if h, ok := m.registry.Lookup(env.Target); ok {
			h.Deliver(env.Payload)
		}
		return
	}
	m.deliverLocal(env.Payload, env.Except)
}

// HandleClientMessage processes incoming WebSocket messages
func (m *Manager) HandleClientMessage(c *Client, raw []byte) {
	var in inboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		m.deliver(c, EventError, ErrorData{Message: "Invalid message format"})
		return
	}

	switch in.Type {
	case EventPing:
		m.deliver(c, EventPong, map[string]string{"status": "alive"})

	case EventTypingStart, EventTypingStop:
		m.handleTyping(c, in)

	default:
		logger.Debug("WebSocket: unknown event '%s' from %s", in.Type, c.ParticipantID())
		m.deliver(c, EventError, ErrorData{Message: "Unknown event type"})
	}
}

func (m *Manager) handleTyping(c *Client, in inboundMessage) {
	var req TypingRequest
	if err := json.Unmarshal(in.Data, &req); err != nil || strings.TrimSpace(req.RecipientID) == "" {
		m.deliver(c, EventError, ErrorData{Message: "recipient_id is required"})
		return
	}

	senderID := c.ParticipantID()
	if req.RecipientID == senderID {
		return
	}

	data := TypingData{SenderID: senderID}
	if in.Type == EventTypingStart {
		if m.limiter != nil {
			if ok, _ := m.limiter.Allow(senderID, ratelimit.ActionTyping); !ok {
				return
			}
		}
		data.SenderName = displayName(c)
		data.ExpiresAt = m.now().Add(typingTTL).UTC().Format(time.RFC3339)
	}

	m.SendTo(req.RecipientID, in.Type, data)
}

func displayName(c *Client) string {
	if c.Identity == nil {
		return ""
	}
	return strings.TrimSpace(c.Identity.FirstName + " " + c.Identity.LastName)
}
