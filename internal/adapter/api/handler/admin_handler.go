package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/middleware"
	"egresados/internal/domain/repository"
	"egresados/internal/usecase"
	"egresados/pkg/errors"
	"egresados/pkg/response"
	"egresados/pkg/utils"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// ListUsers handles GET /admin/users?q=&role=&active=&page=&limit=
func (h *AdminHandler) ListUsers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 20)

	filter := repository.UserFilter{
		Query: c.QueryParam("q"),
		Role:  c.QueryParam("role"),
	}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Error(c, errors.Validation("active must be true or false"))
		}
		filter.Active = &active
	}

	users, total, err := h.adminUseCase.ListUsers(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, users, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.adminUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.adminUseCase.ChangeRole(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) ToggleBan(c echo.Context) error {
	user, err := h.adminUseCase.ToggleBan(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) ListPosts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 20)

	posts, total, err := h.adminUseCase.ListPosts(c.Request().Context(), c.QueryParam("author"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, posts, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) DeletePost(c echo.Context) error {
	if err := h.adminUseCase.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Post deleted"})
}
