package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"plume/internal/models"
	"plume/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	s, app := setupTestServer(t)

	author, _ := createUser(t, s, "writer")
	viewer, token := createUser(t, s, "viewer")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createPost(t, s, author, base, func(p *models.Post) {
		p.Text = "Тестовый текст"
		p.ImagePath = "posts/small.gif"
	})
	createPost(t, s, author, base.Add(time.Hour))

	require.NoError(t, s.followRepo.Upsert(context.Background(), viewer.ID, author.ID))

	resp, body := getJSON(t, app, "/profile/writer/", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Author    models.User                  `json:"author"`
		Page      pagination.Page[models.Post] `json:"page"`
		PostCount int64                        `json:"post_count"`
		Following bool                         `json:"following"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "writer", payload.Author.Username)
	assert.Equal(t, int64(2), payload.PostCount)
	assert.True(t, payload.Following)
	require.Len(t, payload.Page.Items, 2)
	assert.Equal(t, "Тестовый текст", payload.Page.Items[1].Text)
	assert.Equal(t, "posts/small.gif", payload.Page.Items[1].ImagePath)
}

func TestProfileAnonymousViewer(t *testing.T) {
	s, app := setupTestServer(t)
	createUser(t, s, "writer")

	resp, body := getJSON(t, app, "/profile/writer/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Following bool `json:"following"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.False(t, payload.Following, "anonymous viewers follow nobody")
}

func TestProfileUnknownUser(t *testing.T) {
	_, app := setupTestServer(t)

	resp, _ := getJSON(t, app, "/profile/ghost/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthorsListsOnlyUsersWithPosts(t *testing.T) {
	s, app := setupTestServer(t)

	zoe, _ := createUser(t, s, "zoe")
	adam, _ := createUser(t, s, "adam")
	createUser(t, s, "lurker")
	when := time.Now().UTC()
	createPost(t, s, zoe, when)
	createPost(t, s, adam, when)

	resp, body := getJSON(t, app, "/authors/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page pagination.Page[models.User]
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, int64(2), page.TotalItems)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "adam", page.Items[0].Username)
	assert.Equal(t, "zoe", page.Items[1].Username)
}
