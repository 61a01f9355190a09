package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"egresados/pkg/errors"
	"egresados/pkg/logger"
	"egresados/pkg/response"
)

// IPRateLimit allows perMinute requests per client IP with the given burst.
// Idle visitors are forgotten after expiresIn.
func IPRateLimit(perMinute float64, burst int, expiresIn time.Duration) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perMinute / 60),
		Burst:     burst,
		ExpiresIn: expiresIn,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, errors.Internal("Failed to identify client", err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("RATE LIMIT: blocked %s %s from %s", c.Request().Method, c.Path(), identifier)
			return response.Error(c, errors.TooManyRequests("Too many requests, please try again later"))
		},
	})
}
