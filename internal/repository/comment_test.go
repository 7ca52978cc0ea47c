package repository

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")
	post := seedPost(t, db, author, "Commented Post", 0, time.Now(), nil)

	first := &models.Comment{Content: "first", UserID: reader.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "bob", first.User.Username)

	second := &models.Comment{Content: "second", UserID: author.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, second))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestCommentRepository_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "alice")
	post := seedPost(t, db, author, "Post", 0, time.Now(), nil)
	comment := &models.Comment{Content: "bye", UserID: author.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, comment))

	require.NoError(t, repo.Delete(ctx, comment.ID))

	_, err := repo.GetByID(ctx, comment.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	err = repo.Delete(ctx, comment.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
