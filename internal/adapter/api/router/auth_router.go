package router

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/handler"
)

func SetupAuthRouter(v1 *echo.Group, authHandler *handler.AuthHandler, m Middlewares) {
	public := v1.Group("/auth", limited(m)...)
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.GET("/confirm/:token", authHandler.Confirm)
	public.POST("/forgot-password", authHandler.ForgotPassword)
	public.GET("/reset-password/:token", authHandler.CheckResetToken)
	public.POST("/reset-password/:token", authHandler.ResetPassword)

	protected := v1.Group("/auth", m.Auth.Authenticate)
	protected.GET("/me", authHandler.Me)
	protected.POST("/logout", authHandler.Logout)
}
