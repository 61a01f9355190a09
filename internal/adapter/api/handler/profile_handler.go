package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"egresados/internal/adapter/api/middleware"
	"egresados/internal/domain/entity"
	"egresados/internal/usecase"
	"egresados/pkg/errors"
	"egresados/pkg/response"
	"egresados/pkg/utils"
)

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type socialLinksRequest struct {
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	GitHub    string `json:"github" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
}

type updateProfileRequest struct {
	FirstName       string             `json:"first_name" validate:"required,max=80"`
	LastName        string             `json:"last_name" validate:"max=80"`
	Description     string             `json:"description" validate:"max=1000"`
	AcademicProgram string             `json:"academic_program" validate:"max=120"`
	GraduationYear  int                `json:"graduation_year" validate:"omitempty,min=1900"`
	SocialLinks     socialLinksRequest `json:"social_links"`
}

func (h *ProfileHandler) GetMine(c echo.Context) error {
	profile, err := h.profileUseCase.GetMine(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) UpdateMine(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.Update(c.Request().Context(), middleware.UserID(c), usecase.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Description:     req.Description,
		AcademicProgram: req.AcademicProgram,
		GraduationYear:  req.GraduationYear,
		SocialLinks: entity.SocialLinks{
			LinkedIn:  req.SocialLinks.LinkedIn,
			GitHub:    req.SocialLinks.GitHub,
			Twitter:   req.SocialLinks.Twitter,
			Instagram: req.SocialLinks.Instagram,
		},
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) UpdatePhoto(c echo.Context) error {
	file, err := openUpload(c, "photo")
	if err != nil {
		return response.Error(c, err)
	}
	if file == nil {
		return response.Error(c, errors.Validation("photo is required"))
	}
	defer file.Close()

	profile, err := h.profileUseCase.UpdatePhoto(c.Request().Context(), middleware.UserID(c), file)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) GetByID(c echo.Context) error {
	profile, err := h.profileUseCase.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

// Search handles GET /profiles/search?q=&program=&year=&page=&limit=
func (h *ProfileHandler) Search(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 20)
	year, _ := strconv.Atoi(c.QueryParam("year"))

	profiles, total, err := h.profileUseCase.Search(c.Request().Context(), usecase.SearchProfilesInput{
		Query:          c.QueryParam("q"),
		Program:        c.QueryParam("program"),
		GraduationYear: year,
		Limit:          pagination.PageSize,
		Offset:         pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, profiles, total, pagination.Page, pagination.PageSize)
}

func (h *ProfileHandler) ListPrograms(c echo.Context) error {
	programs, err := h.profileUseCase.ListPrograms(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, programs)
}

func (h *ProfileHandler) ListGraduationYears(c echo.Context) error {
	years, err := h.profileUseCase.ListGraduationYears(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, years)
}
