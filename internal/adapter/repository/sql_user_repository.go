package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
)

type sqlUserRepository struct {
	db *gorm.DB
}

func NewSQLUserRepository(db *gorm.DB) repository.UserRepository {
	return &sqlUserRepository{db: db}
}

func (r *sqlUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	return sqlError(r.db.WithContext(ctx).Create(user).Error, "User", "create user")
}

func (r *sqlUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, sqlError(err, "User", "get user")
	}
	return &user, nil
}

func (r *sqlUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, sqlError(err, "User", "get user")
	}
	return &user, nil
}

func (r *sqlUserRepository) GetByToken(ctx context.Context, token string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "token = ? AND token <> ''", token).Error; err != nil {
		return nil, sqlError(err, "Token", "get user")
	}
	return &user, nil
}

func (r *sqlUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	return sqlError(r.db.WithContext(ctx).Save(user).Error, "User", "update user")
}

func (r *sqlUserRepository) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{})
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, sqlError(err, "User", "count users")
	}

	var users []*entity.User
	if err := paginate(query.Order("created_at DESC"), limit, offset).Find(&users).Error; err != nil {
		return nil, 0, sqlError(err, "User", "list users")
	}
	return users, total, nil
}
