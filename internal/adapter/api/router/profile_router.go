package router

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/handler"
)

func SetupProfileRouter(v1 *echo.Group, profileHandler *handler.ProfileHandler, m Middlewares) {
	profiles := v1.Group("/profiles", m.Auth.Authenticate)

	// Own profile is editable before it is completed.
	profiles.GET("/me", profileHandler.GetMine)
	profiles.PUT("/me", profileHandler.UpdateMine)
	profiles.PUT("/me/photo", profileHandler.UpdatePhoto)

	profiles.GET("/search", profileHandler.Search)
	profiles.GET("/programs", profileHandler.ListPrograms)
	profiles.GET("/years", profileHandler.ListGraduationYears)
	profiles.GET("/:id", profileHandler.GetByID)
}
