package repository

import (
	"context"

	"egresados/internal/domain/entity"
)

type PostFilter struct {
	AuthorID string
}

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*entity.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, int64, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	DeleteByPost(ctx context.Context, postID string) error
}
