package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/internal/infrastructure/ratelimit"
	"egresados/pkg/errors"
)

type CommentUseCase struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	limiter     RateLimiter
}

func NewCommentUseCase(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	limiter RateLimiter,
) *CommentUseCase {
	return &CommentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		limiter:     limiter,
	}
}

type CommentView struct {
	*entity.Comment
	Author *entity.ParticipantSummary `json:"author,omitempty"`
}

func (uc *CommentUseCase) Create(ctx context.Context, authorID, postID, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.Validation("Comment content is required")
	}
	if utf8.RuneCountInString(content) > entity.MaxCommentLength {
		return nil, errors.Validation(fmt.Sprintf("Comment cannot exceed %d characters", entity.MaxCommentLength))
	}

	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if uc.limiter != nil {
		if ok, _ := uc.limiter.Allow(authorID, ratelimit.ActionComment); !ok {
			return nil, errors.TooManyRequests("Too many comments, please wait a moment")
		}
	}

	comment := &entity.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	views, err := uc.views(ctx, []*entity.Comment{comment})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (uc *CommentUseCase) List(ctx context.Context, postID string, limit, offset int) ([]*CommentView, int64, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return nil, 0, err
	}

	comments, total, err := uc.commentRepo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views, err := uc.views(ctx, comments)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (uc *CommentUseCase) Count(ctx context.Context, postID string) (int64, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return 0, err
	}
	return uc.commentRepo.CountByPost(ctx, postID)
}

func (uc *CommentUseCase) Delete(ctx context.Context, profileID, commentID string) error {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != profileID {
		return errors.Forbidden("You can only delete your own comments", nil)
	}
	return uc.commentRepo.Delete(ctx, commentID)
}

func (uc *CommentUseCase) views(ctx context.Context, comments []*entity.Comment) ([]*CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := uc.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*CommentView, 0, len(comments))
	for _, c := range comments {
		view := &CommentView{Comment: c}
		if a, ok := authors[c.AuthorID]; ok {
			view.Author = a.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}
