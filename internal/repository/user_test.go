package repository

import (
	"context"
	"testing"
	"time"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := createTestUser(t, db, "masha")

	user, err := repo.GetByUsername(ctx, "masha")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsNotFound(err))
}

func TestUserRepository_ListAuthors(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	zoe := createTestUser(t, db, "zoe")
	adam := createTestUser(t, db, "adam")
	createTestUser(t, db, "lurker")

	when := time.Now().UTC()
	createTestPost(t, db, zoe, when)
	createTestPost(t, db, adam, when)

	authors, total, err := repo.ListAuthors(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "users without posts are not authors")
	require.Len(t, authors, 2)
	assert.Equal(t, "adam", authors[0].Username, "authors come back in username order")
	assert.Equal(t, "zoe", authors[1].Username)
}

func TestUserRepository_DeleteRemovesOwnedData(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	followRepo := NewFollowRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	leaving := createTestUser(t, db, "leaving")
	staying := createTestUser(t, db, "staying")
	when := time.Now().UTC()

	leavingPost := createTestPost(t, db, leaving, when)
	stayingPost := createTestPost(t, db, staying, when)

	// Comment by the departing user on someone else's post is deleted;
	// a comment by someone else on the departing user's post is orphaned.
	ownComment := createTestComment(t, db, stayingPost, leaving, "mine")
	otherComment := createTestComment(t, db, leavingPost, staying, "theirs")

	require.NoError(t, followRepo.Upsert(ctx, leaving.ID, staying.ID))
	require.NoError(t, followRepo.Upsert(ctx, staying.ID, leaving.ID))

	require.NoError(t, repo.Delete(ctx, leaving.ID))

	_, err := repo.GetByID(ctx, leaving.ID)
	assert.True(t, models.IsNotFound(err))

	var postCount int64
	db.Model(&models.Post{}).Where("author_id = ?", leaving.ID).Count(&postCount)
	assert.Zero(t, postCount, "the departing user's posts are gone")

	_, err = commentRepo.GetByID(ctx, ownComment.ID)
	assert.True(t, models.IsNotFound(err))

	orphan, err := commentRepo.GetByID(ctx, otherComment.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.PostID)

	exists, err := followRepo.Exists(ctx, staying.ID, leaving.ID)
	require.NoError(t, err)
	assert.False(t, exists, "follow edges in both directions are removed")
}
