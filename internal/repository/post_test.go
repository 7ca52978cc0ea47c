package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenEphemeral()
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, user *models.User, title string, views int, createdAt time.Time, categoryID *uint) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      title,
		Slug:       strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Content:    "content of " + title,
		Views:      views,
		UserID:     user.ID,
		CategoryID: categoryID,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestPostRepository_IncrementViews(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "views"=views + 1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementViews(context.Background(), 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByIDAndSlug(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author, "Hello World", 0, time.Now(), nil)

	t.Run("matching id and slug", func(t *testing.T) {
		got, err := repo.GetByIDAndSlug(ctx, post.ID, post.Slug)
		require.NoError(t, err)
		assert.Equal(t, post.Title, got.Title)
		assert.Equal(t, author.Username, got.User.Username)
	})

	t.Run("stale slug is not found", func(t *testing.T) {
		_, err := repo.GetByIDAndSlug(ctx, post.ID, "old-slug")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestPostRepository_List(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "testwriter")

	category := &models.Category{Name: "Go", Slug: "go"}
	require.NoError(t, db.Create(category).Error)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, db, alice, "First Steps", 5, base, &category.ID)
	seedPost(t, db, alice, "Testing Strategies", 50, base.Add(time.Hour), &category.ID)
	seedPost(t, db, bob, "Morning Notes", 20, base.Add(2*time.Hour), nil)

	t.Run("default sort is newest first", func(t *testing.T) {
		posts, total, err := repo.List(ctx, ListOptions{Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, posts, 3)
		assert.Equal(t, "Morning Notes", posts[0].Title)
		assert.Equal(t, "First Steps", posts[2].Title)
	})

	t.Run("popular sort orders by views", func(t *testing.T) {
		posts, _, err := repo.List(ctx, ListOptions{Sort: "popular", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, "Testing Strategies", posts[0].Title)
		assert.Equal(t, "Morning Notes", posts[1].Title)
		assert.Equal(t, "First Steps", posts[2].Title)
	})

	t.Run("category filter", func(t *testing.T) {
		posts, total, err := repo.List(ctx, ListOptions{CategoryID: &category.ID, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, posts, 2)
	})

	t.Run("search matches title content and author", func(t *testing.T) {
		// "test" hits one post title and one author username, case-insensitive.
		posts, total, err := repo.List(ctx, ListOptions{Query: "TEST", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		titles := []string{posts[0].Title, posts[1].Title}
		assert.Contains(t, titles, "Testing Strategies")
		assert.Contains(t, titles, "Morning Notes")
	})

	t.Run("pagination offsets into the ordered set", func(t *testing.T) {
		posts, total, err := repo.List(ctx, ListOptions{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, posts, 1)
		assert.Equal(t, "First Steps", posts[0].Title)
	})
}

func TestPostRepository_IncrementLikes(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author, "Liked Post", 0, time.Now(), nil)

	likes, err := repo.IncrementLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	likes, err = repo.IncrementLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	_, err = repo.IncrementLikes(ctx, 9999)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_Delete_RemovesComments(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author, "Doomed Post", 0, time.Now(), nil)
	require.NoError(t, db.Create(&models.Comment{Content: "nice", UserID: author.ID, PostID: post.ID}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	assert.EqualValues(t, 0, comments)

	err := repo.Delete(ctx, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_Stats(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "alice")
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	seedPost(t, db, author, "One", 10, base, nil)
	seedPost(t, db, author, "Two", 30, base.Add(time.Hour), nil)

	count, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	views, err := repo.SumViews(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 40, views)

	recent, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Two", recent[0].Title)

	popular, err := repo.Popular(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "Two", popular[0].Title)
}
