package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	return firestoreError(err, "User", "create user")
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError(err, "User", "get user")
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *firestoreUserRepository) GetByToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, errors.NotFound("Token", nil)
	}
	return r.findOne(ctx, "token", token)
}

func (r *firestoreUserRepository) findOne(ctx context.Context, field, value string) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	return firestoreError(err, "User", "update user")
}

func (r *firestoreUserRepository) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	query := r.client.Collection(usersCollection).Query
	if filter.Role != "" {
		query = query.Where("role", "==", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("active", "==", *filter.Active)
	}

	users, err := collect[entity.User](query.OrderBy("createdAt", firestore.Desc).Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}

	// Firestore has no substring match; the text filter runs over the narrowed result.
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		matched := users[:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
				matched = append(matched, u)
			}
		}
		users = matched
	}

	return window(users, limit, offset), int64(len(users)), nil
}
