package usecase

import (
	"context"
	"io"
	"strings"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/internal/infrastructure/ratelimit"
	"egresados/internal/infrastructure/storage"
	"egresados/pkg/errors"
	"egresados/pkg/logger"
)

type PostUseCase struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	profileRepo repository.ProfileRepository
	images      ImageStore
	limiter     RateLimiter
}

func NewPostUseCase(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	profileRepo repository.ProfileRepository,
	images ImageStore,
	limiter RateLimiter,
) *PostUseCase {
	return &PostUseCase{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		profileRepo: profileRepo,
		images:      images,
		limiter:     limiter,
	}
}

type PostView struct {
	*entity.Post
	Author        *entity.ParticipantSummary `json:"author,omitempty"`
	LikesCount    int                        `json:"likes_count"`
	CommentsCount int64                      `json:"comments_count"`
	LikedByMe     bool                       `json:"liked_by_me"`
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

func (uc *PostUseCase) Create(ctx context.Context, authorID, description string, image io.Reader) (*PostView, error) {
	description = strings.TrimSpace(description)
	if description == "" && image == nil {
		return nil, errors.Validation("Post must have a description or an image")
	}

	if uc.limiter != nil {
		if ok, _ := uc.limiter.Allow(authorID, ratelimit.ActionCreatePost); !ok {
			return nil, errors.TooManyRequests("Too many posts, please wait a moment")
		}
	}

	post := &entity.Post{
		AuthorID:    authorID,
		Description: description,
		Likes:       []string{},
	}

	if image != nil {
		data, contentType, err := storage.PrepareImage(image, storage.ImagePost)
		if err != nil {
			return nil, errors.Validation("File must be a valid image")
		}
		post.ImageURL, err = uc.images.Upload(ctx, data, contentType, "posts")
		if err != nil {
			return nil, errors.Internal("Failed to upload image", err)
		}
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return uc.view(ctx, post, authorID)
}

func (uc *PostUseCase) Feed(ctx context.Context, viewerID string, limit, offset int) ([]*PostView, int64, error) {
	return uc.list(ctx, viewerID, repository.PostFilter{}, limit, offset)
}

func (uc *PostUseCase) ListByAuthor(ctx context.Context, viewerID, authorID string, limit, offset int) ([]*PostView, int64, error) {
	if _, err := uc.profileRepo.GetByID(ctx, authorID); err != nil {
		return nil, 0, err
	}
	return uc.list(ctx, viewerID, repository.PostFilter{AuthorID: authorID}, limit, offset)
}

func (uc *PostUseCase) Get(ctx context.Context, viewerID, postID string) (*PostView, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, post, viewerID)
}

func (uc *PostUseCase) Edit(ctx context.Context, profileID, postID, description string) (*PostView, error) {
	post, err := uc.owned(ctx, profileID, postID)
	if err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" && post.ImageURL == "" {
		return nil, errors.Validation("Post must have a description or an image")
	}

	post.Description = description
	if err := uc.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return uc.view(ctx, post, profileID)
}

func (uc *PostUseCase) Delete(ctx context.Context, profileID, postID string) error {
	post, err := uc.owned(ctx, profileID, postID)
	if err != nil {
		return err
	}
	return uc.remove(ctx, post)
}

func (uc *PostUseCase) ToggleLike(ctx context.Context, profileID, postID string) (*LikeResult, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked := post.ToggleLike(profileID)
	if err := uc.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikesCount: len(post.Likes)}, nil
}

func (uc *PostUseCase) owned(ctx context.Context, profileID, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != profileID {
		return nil, errors.Forbidden("You can only modify your own posts", nil)
	}
	return post, nil
}

// remove deletes the post with its comments; the image is removed best effort.
func (uc *PostUseCase) remove(ctx context.Context, post *entity.Post) error {
	if err := uc.commentRepo.DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	if err := uc.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}

	if post.ImageURL != "" && uc.images != nil {
		if err := uc.images.Delete(ctx, post.ImageURL); err != nil {
			logger.Warn("Post: failed to delete image %s: %v", post.ImageURL, err)
		}
	}
	return nil
}

func (uc *PostUseCase) list(ctx context.Context, viewerID string, filter repository.PostFilter, limit, offset int) ([]*PostView, int64, error) {
	posts, total, err := uc.postRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	authors, err := uc.profileRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		count, err := uc.commentRepo.CountByPost(ctx, p.ID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, newPostView(p, authors[p.AuthorID], count, viewerID))
	}
	return views, total, nil
}

func (uc *PostUseCase) view(ctx context.Context, post *entity.Post, viewerID string) (*PostView, error) {
	authors, err := uc.profileRepo.GetByIDs(ctx, []string{post.AuthorID})
	if err != nil {
		return nil, err
	}
	count, err := uc.commentRepo.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return newPostView(post, authors[post.AuthorID], count, viewerID), nil
}

func newPostView(post *entity.Post, author *entity.Profile, comments int64, viewerID string) *PostView {
	view := &PostView{
		Post:          post,
		LikesCount:    len(post.Likes),
		CommentsCount: comments,
		LikedByMe:     viewerID != "" && post.LikedBy(viewerID),
	}
	if author != nil {
		view.Author = author.Summary()
	}
	return view
}
