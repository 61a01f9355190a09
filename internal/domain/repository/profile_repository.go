package repository

import (
	"context"

	"egresados/internal/domain/entity"
)

// ProfileFilter restricts Search. Only completed profiles are ever returned.
type ProfileFilter struct {
	Query          string
	Program        string
	GraduationYear int
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	Search(ctx context.Context, filter ProfileFilter, limit, offset int) ([]*entity.Profile, int64, error)
	ListPrograms(ctx context.Context) ([]string, error)
	ListGraduationYears(ctx context.Context) ([]int, error)
}
