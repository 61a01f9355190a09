package handler

import (
	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/middleware"
	"egresados/internal/usecase"
	"egresados/pkg/response"
	"egresados/pkg/utils"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
	}
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *CommentHandler) Create(c echo.Context) error {
	var req createCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.commentUseCase.Create(c.Request().Context(), middleware.ProfileID(c), c.Param("id"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, comment)
}

func (h *CommentHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 20)

	comments, total, err := h.commentUseCase.List(c.Request().Context(), c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, comments, total, pagination.Page, pagination.PageSize)
}

func (h *CommentHandler) Count(c echo.Context) error {
	count, err := h.commentUseCase.Count(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int64{"count": count})
}

func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.commentUseCase.Delete(c.Request().Context(), middleware.ProfileID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Comment deleted"})
}
