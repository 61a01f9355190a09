package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
)

type sqlProfileRepository struct {
	db *gorm.DB
}

func NewSQLProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &sqlProfileRepository{db: db}
}

func (r *sqlProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return sqlError(r.db.WithContext(ctx).Create(profile).Error, "Profile", "create profile")
}

func (r *sqlProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, sqlError(err, "Profile", "get profile")
	}
	return &profile, nil
}

func (r *sqlProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, sqlError(err, "Profile", "get profile")
	}
	return &profile, nil
}

func (r *sqlProfileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Profile, error) {
	result := make(map[string]*entity.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var profiles []*entity.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, sqlError(err, "Profile", "get profiles")
	}
	for _, p := range profiles {
		result[p.ID] = p
	}
	return result, nil
}

func (r *sqlProfileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	profile.UpdatedAt = time.Now()
	return sqlError(r.db.WithContext(ctx).Save(profile).Error, "Profile", "update profile")
}

func (r *sqlProfileRepository) Search(ctx context.Context, filter repository.ProfileFilter, limit, offset int) ([]*entity.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Profile{}).Where("completed = ?", true)
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(academic_program) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Program != "" {
		query = query.Where("academic_program = ?", filter.Program)
	}
	if filter.GraduationYear > 0 {
		query = query.Where("graduation_year = ?", filter.GraduationYear)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, sqlError(err, "Profile", "count profiles")
	}

	var profiles []*entity.Profile
	err := paginate(query.Order("first_name ASC, last_name ASC"), limit, offset).Find(&profiles).Error
	if err != nil {
		return nil, 0, sqlError(err, "Profile", "search profiles")
	}
	return profiles, total, nil
}

func (r *sqlProfileRepository) ListPrograms(ctx context.Context) ([]string, error) {
	var programs []string
	err := r.db.WithContext(ctx).Model(&entity.Profile{}).
		Where("completed = ? AND academic_program <> ''", true).
		Order("academic_program ASC").
		Distinct().
		Pluck("academic_program", &programs).Error
	if err != nil {
		return nil, sqlError(err, "Profile", "list programs")
	}
	return programs, nil
}

func (r *sqlProfileRepository) ListGraduationYears(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).Model(&entity.Profile{}).
		Where("completed = ? AND graduation_year > 0", true).
		Order("graduation_year DESC").
		Distinct().
		Pluck("graduation_year", &years).Error
	if err != nil {
		return nil, sqlError(err, "Profile", "list graduation years")
	}
	return years, nil
}
