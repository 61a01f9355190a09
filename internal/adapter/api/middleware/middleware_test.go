package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"egresados/internal/domain/entity"
	"egresados/pkg/errors"
)

type stubAuth map[string]*entity.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.Unauthorized("Invalid or expired token", nil)
}

type stubProfiles map[string]*entity.Profile

func (s stubProfiles) GetMine(_ context.Context, userID string) (*entity.Profile, error) {
	if p, ok := s[userID]; ok {
		return p, nil
	}
	return nil, errors.NotFound("Profile", nil)
}

func serve(mw []echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var h echo.HandlerFunc = func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	h(c)
	return rec, c
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthenticate(t *testing.T) {
	user := &entity.User{ID: "u1", Role: entity.RoleUser}
	m := NewAuthMiddleware(stubAuth{"good": user})

	rec, _ := serve([]echo.MiddlewareFunc{m.Authenticate}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve([]echo.MiddlewareFunc{m.Authenticate}, "Token good")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve([]echo.MiddlewareFunc{m.Authenticate}, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, c := serve([]echo.MiddlewareFunc{m.Authenticate}, "Bearer good")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", UserID(c))
	assert.Same(t, user, CurrentUser(c))
}

func TestRequireProfile(t *testing.T) {
	auth := NewAuthMiddleware(stubAuth{
		"complete":   {ID: "u1"},
		"incomplete": {ID: "u2"},
		"orphan":     {ID: "u3"},
	})
	profiles := NewProfileMiddleware(stubProfiles{
		"u1": {ID: "p1", UserID: "u1", Completed: true},
		"u2": {ID: "p2", UserID: "u2"},
	})
	chain := []echo.MiddlewareFunc{auth.Authenticate, profiles.RequireProfile}

	rec, c := serve(chain, "Bearer complete")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p1", ProfileID(c))

	rec, _ = serve(chain, "Bearer incomplete")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(chain, "Bearer orphan")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	auth := NewAuthMiddleware(stubAuth{
		"admin": {ID: "a", Role: entity.RoleAdmin},
		"user":  {ID: "u", Role: entity.RoleUser},
	})
	chain := []echo.MiddlewareFunc{auth.Authenticate, NewAdminMiddleware().AdminOnly}

	rec, _ := serve(chain, "Bearer admin")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = serve(chain, "Bearer user")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve([]echo.MiddlewareFunc{NewAdminMiddleware().AdminOnly}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIPRateLimit(t *testing.T) {
	limit := IPRateLimit(1, 2, time.Minute)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec, _ := serve([]echo.MiddlewareFunc{limit}, "")
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
