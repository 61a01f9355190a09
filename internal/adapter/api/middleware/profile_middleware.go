package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"egresados/internal/domain/entity"
	"egresados/pkg/errors"
	"egresados/pkg/response"
)

type ProfileLookup interface {
	GetMine(ctx context.Context, userID string) (*entity.Profile, error)
}

type ProfileMiddleware struct {
	profiles ProfileLookup
}

func NewProfileMiddleware(profiles ProfileLookup) *ProfileMiddleware {
	return &ProfileMiddleware{profiles: profiles}
}

// RequireProfile resolves the caller's profile and rejects incomplete ones.
// It must run after AuthMiddleware.Authenticate.
func (m *ProfileMiddleware) RequireProfile(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := UserID(c)
		if uid == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		profile, err := m.profiles.GetMine(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, err)
		}
		if !profile.Completed {
			return response.Error(c, errors.Forbidden("Complete your profile first", nil))
		}

		c.Set(ContextProfileID, profile.ID)
		c.Set(ContextProfile, profile)
		return next(c)
	}
}
