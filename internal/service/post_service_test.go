package service

import (
	"context"
	"testing"
	"time"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(env *testEnv) *PostService {
	return NewPostService(env.postRepo, env.groupRepo, env.commentRepo)
}

func TestPostService_Create(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := env.user(t, "writer")
	group := env.group(t, "cats")

	post, err := svc.Create(ctx, CreatePostInput{
		AuthorID:  author.ID,
		Text:      "Тестовый текст",
		GroupSlug: "cats",
		ImagePath: "posts/small.gif",
	})
	require.NoError(t, err)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "Тестовый текст", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
	assert.Equal(t, "posts/small.gif", post.ImagePath)
	assert.False(t, post.PubDate.IsZero())
}

func TestPostService_CreateValidation(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := env.user(t, "writer")

	_, err := svc.Create(ctx, CreatePostInput{AuthorID: author.ID, Text: "   "})
	assert.True(t, models.IsValidation(err), "whitespace-only text is rejected")

	_, err = svc.Create(ctx, CreatePostInput{AuthorID: author.ID, Text: "ok", GroupSlug: "nope"})
	assert.True(t, models.IsValidation(err), "unknown group slug is a form error, not a 404")
}

func TestPostService_UpdateByAuthor(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := env.user(t, "writer")
	group := env.group(t, "cats")
	post := env.post(t, author, time.Now().UTC())

	updated, err := svc.Update(ctx, UpdatePostInput{
		PostID:      post.ID,
		RequesterID: author.ID,
		Text:        "edited",
		GroupSlug:   "cats",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, group.ID, *updated.GroupID)
	assert.Equal(t, post.ImagePath, updated.ImagePath, "image is untouched when no new upload arrives")
}

func TestPostService_UpdateByStrangerIsForbidden(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := env.user(t, "writer")
	stranger := env.user(t, "stranger")
	post := env.post(t, author, time.Now().UTC())

	_, err := svc.Update(ctx, UpdatePostInput{
		PostID:      post.ID,
		RequesterID: stranger.ID,
		Text:        "hijacked",
	})
	assert.True(t, models.IsForbidden(err))

	reloaded, err := env.postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hijacked", reloaded.Text, "the post is untouched")
}

func TestPostService_DeleteByStrangerIsForbiddenNoop(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := env.user(t, "writer")
	stranger := env.user(t, "stranger")
	post := env.post(t, author, time.Now().UTC())

	err := svc.Delete(ctx, post.ID, stranger.ID)
	assert.True(t, models.IsForbidden(err))

	_, err = env.postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err, "the post survives a stranger's delete")

	require.NoError(t, svc.Delete(ctx, post.ID, author.ID))
	_, err = env.postRepo.GetByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestPostService_Detail(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newPostService(env)
	commentSvc := NewCommentService(env.commentRepo, env.postRepo)
	ctx := context.Background()

	author := env.user(t, "writer")
	commenter := env.user(t, "commenter")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := env.post(t, author, base)
	env.post(t, author, base.Add(time.Hour))

	_, err := commentSvc.Add(ctx, AddCommentInput{PostID: post.ID, AuthorID: commenter.ID, Text: "nice"})
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.Equal(t, int64(2), detail.AuthorPostCount)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "nice", detail.Comments[0].Text)
}
