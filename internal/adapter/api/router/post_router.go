package router

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/handler"
)

func SetupPostRouter(v1 *echo.Group, postHandler *handler.PostHandler, commentHandler *handler.CommentHandler, m Middlewares) {
	posts := v1.Group("/posts", m.Auth.Authenticate, m.Profile.RequireProfile)
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.Feed)
	posts.GET("/author/:profileId", postHandler.ListByAuthor)
	posts.GET("/:id", postHandler.Get)
	posts.PUT("/:id", postHandler.Edit)
	posts.DELETE("/:id", postHandler.Delete)
	posts.POST("/:id/like", postHandler.ToggleLike)

	posts.GET("/:id/comments", commentHandler.List)
	posts.POST("/:id/comments", commentHandler.Create)
	posts.GET("/:id/comments/count", commentHandler.Count)

	comments := v1.Group("/comments", m.Auth.Authenticate, m.Profile.RequireProfile)
	comments.DELETE("/:id", commentHandler.Delete)
}
