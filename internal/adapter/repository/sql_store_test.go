package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"egresados/internal/domain/entity"
	"egresados/internal/domain/repository"
	"egresados/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := OpenSQLite(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "egresados.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedMessage(t *testing.T, repo repository.MessageRepository, from, to, content string, at time.Time) *entity.Message {
	t.Helper()
	msg := &entity.Message{SenderID: from, RecipientID: to, Content: content, CreatedAt: at}
	require.NoError(t, repo.Create(context.Background(), msg))
	return msg
}

func TestSQLMessageRepository_MarkDeletedTombstone(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLMessageRepository(newTestDB(t))
	msg := seedMessage(t, repo, "a", "b", "hola", time.Now())

	outcome, err := repo.MarkDeleted(ctx, msg.ID, entity.PartySender)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.False(t, outcome.Purged)

	visibleToA, _, err := repo.ListBetween(ctx, "a", "b", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, visibleToA)

	visibleToB, total, err := repo.ListBetween(ctx, "b", "a", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, visibleToB, 1)
	assert.True(t, visibleToB[0].DeletedBySender)

	again, err := repo.MarkDeleted(ctx, msg.ID, entity.PartySender)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.False(t, again.Purged)

	final, err := repo.MarkDeleted(ctx, msg.ID, entity.PartyRecipient)
	require.NoError(t, err)
	assert.True(t, final.Changed)
	assert.True(t, final.Purged)

	_, err = repo.GetByID(ctx, msg.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	_, err = repo.MarkDeleted(ctx, msg.ID, entity.PartyRecipient)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSQLMessageRepository_ListBetweenNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLMessageRepository(newTestDB(t))
	base := time.Now().Add(-time.Hour)

	seedMessage(t, repo, "a", "b", "one", base)
	seedMessage(t, repo, "b", "a", "two", base.Add(time.Minute))
	seedMessage(t, repo, "a", "b", "three", base.Add(2*time.Minute))
	seedMessage(t, repo, "a", "c", "other", base.Add(3*time.Minute))

	messages, total, err := repo.ListBetween(ctx, "a", "b", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 2)
	assert.Equal(t, "three", messages[0].Content)
	assert.Equal(t, "two", messages[1].Content)

	messages, _, err = repo.ListBetween(ctx, "a", "b", 2, 2)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "one", messages[0].Content)
}

func TestSQLMessageRepository_ReadAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLMessageRepository(newTestDB(t))
	base := time.Now().Add(-time.Hour)

	seedMessage(t, repo, "a", "b", "t1", base)
	seedMessage(t, repo, "b", "a", "t2", base.Add(time.Minute))
	last := seedMessage(t, repo, "a", "b", "t3", base.Add(2*time.Minute))
	seedMessage(t, repo, "c", "b", "hi", base.Add(3*time.Minute))

	unread, err := repo.CountUnreadFrom(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	unread, err = repo.CountUnreadFrom(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	total, err := repo.CountUnread(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	got, err := repo.LastBetween(ctx, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, last.ID, got.ID)

	marked, err := repo.MarkRead(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	unread, err = repo.CountUnreadFrom(ctx, "b", "a")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// messages sent by b stay unread for a
	unread, err = repo.CountUnreadFrom(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestSQLMessageRepository_Counterparts(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLMessageRepository(newTestDB(t))
	now := time.Now()

	seedMessage(t, repo, "a", "b", "x", now)
	seedMessage(t, repo, "b", "a", "y", now)
	seedMessage(t, repo, "c", "a", "z", now)
	hidden := seedMessage(t, repo, "a", "d", "w", now)

	_, err := repo.MarkDeleted(ctx, hidden.ID, entity.PartySender)
	require.NoError(t, err)

	ids, err := repo.Counterparts(ctx, "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, ids)

	ids, err = repo.Counterparts(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	none, err := repo.LastBetween(ctx, "a", "d")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSQLProfileRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLProfileRepository(newTestDB(t))

	profiles := []*entity.Profile{
		{ID: "p1", UserID: "u1", FirstName: "Laura", LastName: "Gomez", AcademicProgram: "Ingenieria", GraduationYear: 2020, Completed: true},
		{ID: "p2", UserID: "u2", FirstName: "Andres", LastName: "Perez", AcademicProgram: "Diseno", GraduationYear: 2018, Completed: true},
		{ID: "p3", UserID: "u3", FirstName: "Lucia", Completed: false},
	}
	for _, p := range profiles {
		require.NoError(t, repo.Create(ctx, p))
	}

	found, total, err := repo.Search(ctx, repository.ProfileFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, found, 2)
	assert.Equal(t, "Andres", found[0].FirstName)

	found, _, err = repo.Search(ctx, repository.ProfileFilter{Query: "lau"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p1", found[0].ID)

	programs, err := repo.ListPrograms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Diseno", "Ingenieria"}, programs)

	years, err := repo.ListGraduationYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2018}, years)

	byID, err := repo.GetByIDs(ctx, []string{"p1", "p3", "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
}

func TestSQLPostRepository_LikesRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	posts := NewSQLPostRepository(db)
	comments := NewSQLCommentRepository(db)

	post := &entity.Post{AuthorID: "p1", Description: "primer post"}
	require.NoError(t, posts.Create(ctx, post))

	post.ToggleLike("p2")
	require.NoError(t, posts.Update(ctx, post))

	stored, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, stored.Likes)

	require.NoError(t, comments.Create(ctx, &entity.Comment{PostID: post.ID, AuthorID: "p2", Content: "bien"}))
	count, err := comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, comments.DeleteByPost(ctx, post.ID))
	require.NoError(t, posts.Delete(ctx, post.ID))

	count, err = comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = posts.Delete(ctx, post.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "egresados.db?_busy_timeout=5000&_journal_mode=WAL", sqliteDSN("egresados.db"))
	assert.Equal(t, "file:x?mode=memory&cache=shared&_busy_timeout=5000", sqliteDSN("file:x?mode=memory&cache=shared"))
	assert.Equal(t, "data.db?_busy_timeout=100&_journal_mode=DELETE", sqliteDSN("data.db?_busy_timeout=100&_journal_mode=DELETE"))
}

func TestSQLMessageRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLMessageRepository(newFileTestDB(t))

	const workers, rounds = 25, 8
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		sender := fmt.Sprintf("p%d", w)
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				msg := &entity.Message{SenderID: sender, RecipientID: "hub", Content: "hola", CreatedAt: time.Now()}
				if err := repo.Create(ctx, msg); err != nil {
					return err
				}
				if _, err := repo.MarkDeleted(ctx, msg.ID, entity.PartySender); err != nil {
					return err
				}
				if _, err := repo.Counterparts(ctx, "hub"); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	unread, err := repo.CountUnread(ctx, "hub")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*rounds), unread)
}

func TestSQLMessageRepository_RacingFinalDeletesPurgeOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLMessageRepository(newFileTestDB(t))

	for i := 0; i < 20; i++ {
		msg := seedMessage(t, repo, "a", "b", fmt.Sprintf("m%d", i), time.Now())

		var purged atomic.Int32
		var g errgroup.Group
		for _, party := range []entity.Party{entity.PartySender, entity.PartyRecipient} {
			party := party
			g.Go(func() error {
				outcome, err := repo.MarkDeleted(ctx, msg.ID, party)
				if err != nil {
					return err
				}
				if outcome.Purged {
					purged.Add(1)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int32(1), purged.Load())

		_, err := repo.GetByID(ctx, msg.ID)
		assert.True(t, errors.Is(err, "NOT_FOUND"))
	}
}
