package usecase

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/internal/infrastructure/storage"
	"egresados/pkg/errors"
	"egresados/pkg/logger"
)

const minGraduationYear = 1900

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	images      ImageStore
	now         func() time.Time
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, images ImageStore) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		images:      images,
		now:         time.Now,
	}
}

type UpdateProfileInput struct {
	FirstName       string
	LastName        string
	Description     string
	AcademicProgram string
	GraduationYear  int
	SocialLinks     entity.SocialLinks
}

type SearchProfilesInput struct {
	Query          string
	Program        string
	GraduationYear int
	Limit          int
	Offset         int
}

func (uc *ProfileUseCase) GetMine(ctx context.Context, userID string) (*entity.Profile, error) {
	return uc.profileRepo.GetByUserID(ctx, userID)
}

func (uc *ProfileUseCase) Update(ctx context.Context, userID string, input UpdateProfileInput) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.GraduationYear != 0 {
		maxYear := uc.now().Year() + 5
		if input.GraduationYear < minGraduationYear || input.GraduationYear > maxYear {
			return nil, errors.Validation("Graduation year is out of range")
		}
	}

	profile.FirstName = strings.TrimSpace(input.FirstName)
	profile.LastName = strings.TrimSpace(input.LastName)
	profile.Description = strings.TrimSpace(input.Description)
	profile.AcademicProgram = strings.TrimSpace(input.AcademicProgram)
	profile.GraduationYear = input.GraduationYear
	profile.SocialLinks = entity.SocialLinks{
		LinkedIn:  sanitizeLink(input.SocialLinks.LinkedIn),
		GitHub:    sanitizeLink(input.SocialLinks.GitHub),
		Twitter:   sanitizeLink(input.SocialLinks.Twitter),
		Instagram: sanitizeLink(input.SocialLinks.Instagram),
	}
	profile.Completed = profile.FirstName != "" && profile.AcademicProgram != "" && profile.GraduationYear > 0

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// sanitizeLink keeps absolute http(s) URLs and clears anything else.
func sanitizeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

func (uc *ProfileUseCase) UpdatePhoto(ctx context.Context, userID string, image io.Reader) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, contentType, err := storage.PrepareImage(image, storage.ImageAvatar)
	if err != nil {
		return nil, errors.Validation("File must be a valid image")
	}

	photoURL, err := uc.images.Upload(ctx, data, contentType, "profiles")
	if err != nil {
		return nil, errors.Internal("Failed to upload photo", err)
	}

	previous := profile.PhotoURL
	profile.PhotoURL = photoURL
	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if previous != "" {
		if err := uc.images.Delete(ctx, previous); err != nil {
			logger.Warn("Profile: failed to delete previous photo %s: %v", previous, err)
		}
	}
	return profile, nil
}

// GetPublic only exposes completed profiles.
func (uc *ProfileUseCase) GetPublic(ctx context.Context, id string) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !profile.Completed {
		return nil, errors.NotFound("Profile", nil)
	}
	return profile, nil
}

func (uc *ProfileUseCase) Search(ctx context.Context, input SearchProfilesInput) ([]*entity.Profile, int64, error) {
	filter := repository.ProfileFilter{
		Query:          strings.TrimSpace(input.Query),
		Program:        strings.TrimSpace(input.Program),
		GraduationYear: input.GraduationYear,
	}
	return uc.profileRepo.Search(ctx, filter, input.Limit, input.Offset)
}

func (uc *ProfileUseCase) ListPrograms(ctx context.Context) ([]string, error) {
	return uc.profileRepo.ListPrograms(ctx)
}

func (uc *ProfileUseCase) ListGraduationYears(ctx context.Context) ([]int, error) {
	return uc.profileRepo.ListGraduationYears(ctx)
}
