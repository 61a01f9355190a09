package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
	"egresados/pkg/logger"
)

const minPasswordLength = 8

type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokens      TokenService
	hasher      PasswordHasher
	mailer      Mailer
	emailDomain string
	frontendURL string
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokens TokenService,
	hasher PasswordHasher,
	mailer Mailer,
	emailDomain string,
	frontendURL string,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		hasher:      hasher,
		mailer:      mailer,
		emailDomain: strings.ToLower(strings.TrimPrefix(emailDomain, "@")),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
}

type MeResult struct {
	User    *entity.User    `json:"user"`
	Profile *entity.Profile `json:"profile,omitempty"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return errors.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	if name == "" {
		return nil, errors.Validation("Name is required")
	}
	if uc.emailDomain != "" && !strings.HasSuffix(email, "@"+uc.emailDomain) {
		return nil, errors.Validation("Email must belong to @" + uc.emailDomain)
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Token:        uuid.New().String(),
		Role:         entity.RoleUser,
		Active:       true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Email:  email,
	}
	profile.FirstName, profile.LastName = splitName(name)
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/confirm/%s", uc.frontendURL, user.Token)
	uc.sendMail(ctx, email, "Confirma tu cuenta", fmt.Sprintf("Hola %s,\n\nConfirma tu cuenta en: %s\n", name, link))

	logger.Info("Auth: registered account %s", user.ID)
	return user, nil
}

func (uc *AuthUseCase) userByToken(ctx context.Context, token string) (*entity.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.NotFound("Token", nil)
	}
	return uc.userRepo.GetByToken(ctx, token)
}

func (uc *AuthUseCase) Confirm(ctx context.Context, token string) error {
	user, err := uc.userByToken(ctx, token)
	if err != nil {
		return err
	}
	if user.Confirmed {
		return errors.NotFound("Token", nil)
	}

	user.Confirmed = true
	user.Token = ""
	return uc.userRepo.Update(ctx, user)
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("Invalid email or password", nil)
		}
		return nil, err
	}
	if !uc.hasher.Compare(user.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid email or password", nil)
	}
	if !user.Confirmed {
		return nil, errors.Forbidden("Account has not been confirmed", nil)
	}
	if !user.Active {
		return nil, errors.Forbidden("Account is banned", nil)
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// ForgotPassword never reveals whether the email exists.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil
		}
		return err
	}
	if !user.Confirmed {
		return nil
	}

	user.Token = uuid.New().String()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", uc.frontendURL, user.Token)
	uc.sendMail(ctx, user.Email, "Restablece tu contraseña", fmt.Sprintf("Hola %s,\n\nRestablece tu contraseña en: %s\n", user.Name, link))
	return nil
}

func (uc *AuthUseCase) resetTarget(ctx context.Context, token string) (*entity.User, error) {
	user, err := uc.userByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.Confirmed {
		return nil, errors.NotFound("Token", nil)
	}
	return user, nil
}

func (uc *AuthUseCase) CheckResetToken(ctx context.Context, token string) error {
	_, err := uc.resetTarget(ctx, token)
	return err
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	user, err := uc.resetTarget(ctx, token)
	if err != nil {
		return err
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}
	user.PasswordHash = hash
	user.Token = ""
	return uc.userRepo.Update(ctx, user)
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*MeResult, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}
	return &MeResult{User: user, Profile: profile}, nil
}

// Authenticate resolves a session token to an active account.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, errors.Unauthorized("Authentication token is required", nil)
	}

	userID, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("Account not found", err)
		}
		return nil, err
	}
	if !user.Active {
		return nil, errors.Forbidden("Account is banned", nil)
	}
	return user, nil
}

// AuthenticateConnection is the realtime handshake: token, account, then a completed profile.
func (uc *AuthUseCase) AuthenticateConnection(ctx context.Context, token string) (*entity.ParticipantSummary, error) {
	user, err := uc.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("Profile not found", err)
		}
		return nil, err
	}
	if !profile.Completed {
		return nil, errors.Unauthorized("Profile is not completed", nil)
	}
	return profile.Summary(), nil
}

func (uc *AuthUseCase) sendMail(ctx context.Context, to, subject, body string) {
	if uc.mailer == nil {
		return
	}
	if err := uc.mailer.Send(ctx, to, subject, body); err != nil {
		logger.Warn("Auth: failed to send '%s' to %s: %v", subject, to, err)
	}
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
