package websocket

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"egresados/pkg/logger"
)

const relayChannel = "egresados:realtime"

// Envelope carries one encoded frame between instances. An empty Target means broadcast.
type Envelope struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target,omitempty"`
	Except  string          `json:"except,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

type Relay interface {
	Publish(ctx context.Context, env Envelope) error
	// Subscribe calls handle for every envelope until ctx is done.
	Subscribe(ctx context.Context, handle func(Envelope)) error
}

type RedisRelay struct {
	client  *redis.Client
	channel string
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client, channel: relayChannel}
}

func (r *RedisRelay) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, body).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context, handle func(Envelope)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logger.Warn("WebSocket: dropping malformed relay message: %v", err)
				continue
			}
			handle(env)
		}
	}
}
