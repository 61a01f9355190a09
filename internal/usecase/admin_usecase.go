package usecase

import (
	"context"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
	"egresados/pkg/logger"
)

type AdminUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	posts       *PostUseCase
}

func NewAdminUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	postRepo repository.PostRepository,
	posts *PostUseCase,
) *AdminUseCase {
	return &AdminUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		postRepo:    postRepo,
		posts:       posts,
	}
}

type AdminUserView struct {
	User      *entity.User    `json:"user"`
	Profile   *entity.Profile `json:"profile,omitempty"`
	PostCount int64           `json:"post_count"`
}

func (uc *AdminUseCase) ListUsers(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	if filter.Role != "" && filter.Role != entity.RoleUser && filter.Role != entity.RoleAdmin {
		return nil, 0, errors.Validation("Unknown role")
	}
	return uc.userRepo.List(ctx, filter, limit, offset)
}

func (uc *AdminUseCase) GetUser(ctx context.Context, id string) (*AdminUserView, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &AdminUserView{User: user}
	profile, err := uc.profileRepo.GetByUserID(ctx, id)
	switch {
	case err == nil:
		view.Profile = profile
		view.PostCount, err = uc.postRepo.CountByAuthor(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
	case !errors.Is(err, "NOT_FOUND"):
		return nil, err
	}
	return view, nil
}

func (uc *AdminUseCase) ChangeRole(ctx context.Context, actorID, id, role string) (*entity.User, error) {
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return nil, errors.Validation("Role must be 'user' or 'admin'")
	}
	if actorID == id {
		return nil, errors.Forbidden("You cannot change your own role", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Admin: %s set role of %s to %s", actorID, id, role)
	return user, nil
}

func (uc *AdminUseCase) ToggleBan(ctx context.Context, actorID, id string) (*entity.User, error) {
	if actorID == id {
		return nil, errors.Forbidden("You cannot ban yourself", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, errors.Forbidden("Administrators cannot be banned", nil)
	}

	user.Active = !user.Active
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Admin: %s set active=%t for %s", actorID, user.Active, id)
	return user, nil
}

func (uc *AdminUseCase) ListPosts(ctx context.Context, authorID string, limit, offset int) ([]*PostView, int64, error) {
	return uc.posts.list(ctx, "", repository.PostFilter{AuthorID: authorID}, limit, offset)
}

func (uc *AdminUseCase) DeletePost(ctx context.Context, postID string) error {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	return uc.posts.remove(ctx, post)
}
