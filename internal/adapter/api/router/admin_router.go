package router

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/handler"
)

func SetupAdminRouter(v1 *echo.Group, adminHandler *handler.AdminHandler, m Middlewares) {
	admin := v1.Group("/admin", m.Auth.Authenticate, m.Admin.AdminOnly)

	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id/role", adminHandler.ChangeRole)
	admin.PUT("/users/:id/ban", adminHandler.ToggleBan)

	admin.GET("/posts", adminHandler.ListPosts)
	admin.DELETE("/posts/:id", adminHandler.DeletePost)
}
