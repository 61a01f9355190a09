package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
)

type firestorePostRepository struct {
	client *firestore.Client
}

func NewFirestorePostRepository(client *firestore.Client) repository.PostRepository {
	return &firestorePostRepository{client: client}
}

func (r *firestorePostRepository) Create(ctx context.Context, post *entity.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []string{}
	}

	_, err := r.client.Collection(postsCollection).Doc(post.ID).Set(ctx, post)
	return firestoreError(err, "Post", "create post")
}

func (r *firestorePostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	doc, err := r.client.Collection(postsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError(err, "Post", "get post")
	}

	var post entity.Post
	if err := doc.DataTo(&post); err != nil {
		return nil, errors.Internal("Failed to parse post data", err)
	}
	return &post, nil
}

func (r *firestorePostRepository) Update(ctx context.Context, post *entity.Post) error {
	post.UpdatedAt = time.Now()
	_, err := r.client.Collection(postsCollection).Doc(post.ID).Set(ctx, post)
	return firestoreError(err, "Post", "update post")
}

func (r *firestorePostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(postsCollection).Doc(id).Delete(ctx, firestore.Exists)
	return firestoreError(err, "Post", "delete post")
}

func (r *firestorePostRepository) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*entity.Post, int64, error) {
	query := r.client.Collection(postsCollection).Query
	if filter.AuthorID != "" {
		query = query.Where("authorId", "==", filter.AuthorID)
	}

	countDocs, err := query.Select().Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count posts", err)
	}
	total := int64(len(countDocs))

	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	posts, err := collect[entity.Post](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list posts", err)
	}
	return posts, total, nil
}

func (r *firestorePostRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	docs, err := r.client.Collection(postsCollection).Where("authorId", "==", authorID).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count posts", err)
	}
	return int64(len(docs)), nil
}

type firestoreCommentRepository struct {
	client *firestore.Client
}

func NewFirestoreCommentRepository(client *firestore.Client) repository.CommentRepository {
	return &firestoreCommentRepository{client: client}
}

func (r *firestoreCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()

	_, err := r.client.Collection(commentsCollection).Doc(comment.ID).Set(ctx, comment)
	return firestoreError(err, "Comment", "create comment")
}

func (r *firestoreCommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	doc, err := r.client.Collection(commentsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError(err, "Comment", "get comment")
	}

	var comment entity.Comment
	if err := doc.DataTo(&comment); err != nil {
		return nil, errors.Internal("Failed to parse comment data", err)
	}
	return &comment, nil
}

func (r *firestoreCommentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(commentsCollection).Doc(id).Delete(ctx)
	return firestoreError(err, "Comment", "delete comment")
}

func (r *firestoreCommentRepository) byPost(postID string) firestore.Query {
	return r.client.Collection(commentsCollection).Where("postId", "==", postID)
}

func (r *firestoreCommentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, int64, error) {
	total, err := r.CountByPost(ctx, postID)
	if err != nil {
		return nil, 0, err
	}

	query := r.byPost(postID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	comments, err := collect[entity.Comment](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list comments", err)
	}
	return comments, total, nil
}

func (r *firestoreCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	docs, err := r.byPost(postID).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count comments", err)
	}
	return int64(len(docs)), nil
}

func (r *firestoreCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	docs, err := r.byPost(postID).Select().Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to list comments", err)
	}

	bw := r.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return errors.Internal("Failed to delete comments", err)
		}
	}
	bw.End()
	return nil
}
