package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
)

type sqlPostRepository struct {
	db *gorm.DB
}

func NewSQLPostRepository(db *gorm.DB) repository.PostRepository {
	return &sqlPostRepository{db: db}
}

func (r *sqlPostRepository) Create(ctx context.Context, post *entity.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []string{}
	}
	return sqlError(r.db.WithContext(ctx).Create(post).Error, "Post", "create post")
}

func (r *sqlPostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, sqlError(err, "Post", "get post")
	}
	return &post, nil
}

func (r *sqlPostRepository) Update(ctx context.Context, post *entity.Post) error {
	post.UpdatedAt = time.Now()
	return sqlError(r.db.WithContext(ctx).Save(post).Error, "Post", "update post")
}

func (r *sqlPostRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Post{}, "id = ?", id)
	if result.Error != nil {
		return sqlError(result.Error, "Post", "delete post")
	}
	if result.RowsAffected == 0 {
		return sqlError(gorm.ErrRecordNotFound, "Post", "delete post")
	}
	return nil
}

func (r *sqlPostRepository) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*entity.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Post{})
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, sqlError(err, "Post", "count posts")
	}

	var posts []*entity.Post
	if err := paginate(query.Order("created_at DESC, id DESC"), limit, offset).Find(&posts).Error; err != nil {
		return nil, 0, sqlError(err, "Post", "list posts")
	}
	return posts, total, nil
}

func (r *sqlPostRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, sqlError(err, "Post", "count posts")
	}
	return count, nil
}

type sqlCommentRepository struct {
	db *gorm.DB
}

func NewSQLCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &sqlCommentRepository{db: db}
}

func (r *sqlCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()
	return sqlError(r.db.WithContext(ctx).Create(comment).Error, "Comment", "create comment")
}

func (r *sqlCommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, sqlError(err, "Comment", "get comment")
	}
	return &comment, nil
}

func (r *sqlCommentRepository) Delete(ctx context.Context, id string) error {
	return sqlError(r.db.WithContext(ctx).Delete(&entity.Comment{}, "id = ?", id).Error, "Comment", "delete comment")
}

func (r *sqlCommentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Comment{}).Where("post_id = ?", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, sqlError(err, "Comment", "count comments")
	}

	var comments []*entity.Comment
	if err := paginate(query.Order("created_at DESC, id DESC"), limit, offset).Find(&comments).Error; err != nil {
		return nil, 0, sqlError(err, "Comment", "list comments")
	}
	return comments, total, nil
}

func (r *sqlCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, sqlError(err, "Comment", "count comments")
	}
	return count, nil
}

func (r *sqlCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	return sqlError(r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&entity.Comment{}).Error, "Comment", "delete comments")
}
