package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"egresados/internal/adapter/repository"
	"egresados/internal/domain/entity"
	domainrepo "egresados/internal/domain/repository"
	"egresados/internal/infrastructure/auth"
)

type sentEvent struct {
	To   string
	Type string
	Data interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
	online map[string]bool
}

func newRecordingNotifier(online ...string) *recordingNotifier {
	n := &recordingNotifier{online: make(map[string]bool)}
	for _, id := range online {
		n.online[id] = true
	}
	return n
}

func (n *recordingNotifier) SendTo(participantID, eventType string, data interface{}) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.online[participantID] {
		return false
	}
	n.events = append(n.events, sentEvent{To: participantID, Type: eventType, Data: data})
	return true
}

func (n *recordingNotifier) OnlineParticipants() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(n.online))
	for id := range n.online {
		ids = append(ids, id)
	}
	return ids
}

func (n *recordingNotifier) take() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	events := n.events
	n.events = nil
	return events
}

type capturedMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []capturedMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

type memoryImages struct {
	mu      sync.Mutex
	stored  map[string][]byte
	deleted []string
}

func newMemoryImages() *memoryImages {
	return &memoryImages{stored: make(map[string][]byte)}
}

func (s *memoryImages) Upload(_ context.Context, data []byte, _ string, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("mem://%s/%s.jpg", folder, uuid.New().String())
	s.stored[url] = data
	return url, nil
}

func (s *memoryImages) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, url)
	s.deleted = append(s.deleted, url)
	return nil
}

type testEnv struct {
	users    domainrepo.UserRepository
	profiles domainrepo.ProfileRepository
	messages domainrepo.MessageRepository
	posts    domainrepo.PostRepository
	comments domainrepo.CommentRepository

	notifier *recordingNotifier
	mailer   *fakeMailer
	images   *memoryImages
	tokens   *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repository.OpenSQLite(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{
		users:    repository.NewSQLUserRepository(db),
		profiles: repository.NewSQLProfileRepository(db),
		messages: repository.NewSQLMessageRepository(db),
		posts:    repository.NewSQLPostRepository(db),
		comments: repository.NewSQLCommentRepository(db),
		notifier: newRecordingNotifier(),
		mailer:   &fakeMailer{},
		images:   newMemoryImages(),
		tokens:   auth.NewTokenService("test-secret", time.Hour),
	}
}

func (e *testEnv) authUseCase() *AuthUseCase {
	return NewAuthUseCase(e.users, e.profiles, e.tokens, auth.NewPasswordHasher(bcrypt.MinCost), e.mailer, "pascualbravo.edu.co", "http://front.test")
}

func (e *testEnv) messageUseCase(limiter RateLimiter) *MessageUseCase {
	return NewMessageUseCase(e.messages, e.profiles, e.notifier, limiter)
}

func (e *testEnv) postUseCase() *PostUseCase {
	return NewPostUseCase(e.posts, e.comments, e.profiles, e.images, nil)
}

// seedProfile stores a completed profile with the given id.
func (e *testEnv) seedProfile(t *testing.T, id, firstName string) *entity.Profile {
	t.Helper()
	p := &entity.Profile{
		ID:              id,
		UserID:          "user-" + id,
		FirstName:       firstName,
		LastName:        "Test",
		AcademicProgram: "Ingenieria de Software",
		GraduationYear:  2021,
		Completed:       true,
	}
	require.NoError(t, e.profiles.Create(context.Background(), p))
	return p
}

func (e *testEnv) seedMessage(t *testing.T, from, to, content string, at time.Time) *entity.Message {
	t.Helper()
	m := &entity.Message{SenderID: from, RecipientID: to, Content: content, CreatedAt: at}
	require.NoError(t, e.messages.Create(context.Background(), m))
	return m
}
