package usecase

import (
	"context"
	"time"
)

type TokenService interface {
	Issue(userID string) (string, time.Time, error)
	Verify(token string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType, folder string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// RealtimeNotifier delivers fire-and-forget events to connected participants.
type RealtimeNotifier interface {
	SendTo(participantID, eventType string, data interface{}) bool
	OnlineParticipants() []string
}

type RateLimiter interface {
	Allow(participantID, action string) (bool, time.Duration)
}
