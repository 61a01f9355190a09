package handler

import (
	"io"

	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/middleware"
	"egresados/internal/usecase"
	"egresados/pkg/response"
	"egresados/pkg/utils"
)

type PostHandler struct {
	postUseCase *usecase.PostUseCase
}

func NewPostHandler(postUseCase *usecase.PostUseCase) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
	}
}

type editPostRequest struct {
	Description string `json:"description" validate:"max=2000"`
}

// Create accepts multipart/form-data with a description and an optional image.
func (h *PostHandler) Create(c echo.Context) error {
	file, err := openUpload(c, "image")
	if err != nil {
		return response.Error(c, err)
	}

	var image io.Reader
	if file != nil {
		defer file.Close()
		image = file
	}

	post, err := h.postUseCase.Create(c.Request().Context(), middleware.ProfileID(c), c.FormValue("description"), image)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, post)
}

func (h *PostHandler) Feed(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 10)

	posts, total, err := h.postUseCase.Feed(c.Request().Context(), middleware.ProfileID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, posts, total, pagination.Page, pagination.PageSize)
}

func (h *PostHandler) ListByAuthor(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 10)

	posts, total, err := h.postUseCase.ListByAuthor(c.Request().Context(), middleware.ProfileID(c), c.Param("profileId"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, posts, total, pagination.Page, pagination.PageSize)
}

func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.postUseCase.Get(c.Request().Context(), middleware.ProfileID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, post)
}

func (h *PostHandler) Edit(c echo.Context) error {
	var req editPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.postUseCase.Edit(c.Request().Context(), middleware.ProfileID(c), c.Param("id"), req.Description)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, post)
}

func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.postUseCase.Delete(c.Request().Context(), middleware.ProfileID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Post deleted"})
}

func (h *PostHandler) ToggleLike(c echo.Context) error {
	result, err := h.postUseCase.ToggleLike(c.Request().Context(), middleware.ProfileID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
