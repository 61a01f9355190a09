package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egresados/internal/domain/entity"
	"egresados/pkg/errors"
)

// tokenFromMail extracts the trailing path segment of the link in the last mail sent.
func tokenFromMail(t *testing.T, m *fakeMailer) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	body := strings.TrimSpace(m.sent[len(m.sent)-1].Body)
	return body[strings.LastIndex(body, "/")+1:]
}

func registerConfirmed(t *testing.T, env *testEnv, uc *AuthUseCase, name, email string) *entity.User {
	t.Helper()
	user, err := uc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secreta123"})
	require.NoError(t, err)
	require.NoError(t, uc.Confirm(context.Background(), tokenFromMail(t, env.mailer)))
	return user
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	uc := env.authUseCase()
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		code  string
	}{
		{"foreign domain", RegisterInput{Name: "Ana", Email: "ana@gmail.com", Password: "secreta123"}, "VALIDATION_ERROR"},
		{"short password", RegisterInput{Name: "Ana", Email: "ana@pascualbravo.edu.co", Password: "corta"}, "VALIDATION_ERROR"},
		{"missing name", RegisterInput{Name: "  ", Email: "ana@pascualbravo.edu.co", Password: "secreta123"}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.input)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	user, err := uc.Register(ctx, RegisterInput{Name: "Ana Maria Perez", Email: " Ana@PascualBravo.edu.co ", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@pascualbravo.edu.co", user.Email)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "secreta123", user.PasswordHash)

	profile, err := env.profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.FirstName)
	assert.Equal(t, "Maria Perez", profile.LastName)
	assert.False(t, profile.Completed)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "ana@pascualbravo.edu.co", env.mailer.sent[0].To)
	assert.Contains(t, env.mailer.sent[0].Body, "http://front.test/confirm/")

	_, err = uc.Register(ctx, RegisterInput{Name: "Otra", Email: "ana@pascualbravo.edu.co", Password: "secreta123"})
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestConfirmAndLogin(t *testing.T) {
	env := newTestEnv(t)
	uc := env.authUseCase()
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@pascualbravo.edu.co", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, "ana@pascualbravo.edu.co", "secreta123")
	assert.True(t, errors.Is(err, "FORBIDDEN"), "unconfirmed accounts cannot log in")

	token := tokenFromMail(t, env.mailer)
	require.NoError(t, uc.Confirm(ctx, token))
	assert.True(t, errors.Is(uc.Confirm(ctx, token), "NOT_FOUND"), "tokens are single use")
	assert.True(t, errors.Is(uc.Confirm(ctx, ""), "NOT_FOUND"))

	_, err = uc.Login(ctx, "ana@pascualbravo.edu.co", "incorrecta")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
	_, err = uc.Login(ctx, "nadie@pascualbravo.edu.co", "secreta123")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	result, err := uc.Login(ctx, "ANA@pascualbravo.edu.co", "secreta123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.ExpiresAt)

	user, err := uc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = uc.Authenticate(ctx, "")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
	_, err = uc.Authenticate(ctx, result.Token+"x")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	me, err := uc.Me(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, me.Profile)
	assert.Equal(t, user.ID, me.Profile.UserID)
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	uc := env.authUseCase()
	ctx := context.Background()

	registerConfirmed(t, env, uc, "Ana", "ana@pascualbravo.edu.co")
	sent := len(env.mailer.sent)

	require.NoError(t, uc.ForgotPassword(ctx, "desconocido@pascualbravo.edu.co"))
	assert.Len(t, env.mailer.sent, sent, "unknown emails get no mail")

	require.NoError(t, uc.ForgotPassword(ctx, "ana@pascualbravo.edu.co"))
	require.Len(t, env.mailer.sent, sent+1)
	assert.Contains(t, env.mailer.sent[sent].Body, "/reset-password/")
	token := tokenFromMail(t, env.mailer)

	require.NoError(t, uc.CheckResetToken(ctx, token))
	assert.True(t, errors.Is(uc.ResetPassword(ctx, token, "corta"), "VALIDATION_ERROR"))
	require.NoError(t, uc.ResetPassword(ctx, token, "nuevaclave1"))
	assert.True(t, errors.Is(uc.CheckResetToken(ctx, token), "NOT_FOUND"))

	_, err := uc.Login(ctx, "ana@pascualbravo.edu.co", "secreta123")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
	_, err = uc.Login(ctx, "ana@pascualbravo.edu.co", "nuevaclave1")
	assert.NoError(t, err)
}

func TestAuthenticateConnection_RequiresCompletedProfile(t *testing.T) {
	env := newTestEnv(t)
	uc := env.authUseCase()
	profiles := NewProfileUseCase(env.profiles, env.images)
	ctx := context.Background()

	user := registerConfirmed(t, env, uc, "Ana", "ana@pascualbravo.edu.co")
	result, err := uc.Login(ctx, "ana@pascualbravo.edu.co", "secreta123")
	require.NoError(t, err)

	_, err = uc.AuthenticateConnection(ctx, result.Token)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = profiles.Update(ctx, user.ID, UpdateProfileInput{
		FirstName:       "Ana",
		AcademicProgram: "Ingenieria de Software",
		GraduationYear:  2020,
	})
	require.NoError(t, err)

	identity, err := uc.AuthenticateConnection(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ana", identity.FirstName)
	assert.Equal(t, 2020, identity.GraduationYear)
}
