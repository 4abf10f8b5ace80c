package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestSignup(t *testing.T) {
	s, app := setupTestServer(t)

	resp, body := postJSON(t, app, "/auth/signup", map[string]string{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, "newcomer", payload.User.Username)

	var stored models.User
	require.NoError(t, s.db.Where("username = ?", "newcomer").First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("longenough")))
}

func TestSignupValidation(t *testing.T) {
	_, app := setupTestServer(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "MissingUsername", payload: map[string]string{"email": "a@b.c", "password": "longenough"}},
		{name: "ShortPassword", payload: map[string]string{"username": "u", "email": "a@b.c", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postJSON(t, app, "/auth/signup", tt.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	s, app := setupTestServer(t)
	createUser(t, s, "taken")

	resp, _ := postJSON(t, app, "/auth/signup", map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "longenough",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	s, app := setupTestServer(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&models.User{
		Username: "resident",
		Email:    "resident@example.com",
		Password: string(hashed),
	}).Error)

	resp, body := postJSON(t, app, "/auth/login", map[string]string{
		"username": "resident",
		"password": "correcthorse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotEmpty(t, payload.Token)

	// The issued token authenticates a protected route.
	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Token)
	authResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = authResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, authResp.StatusCode)
}

func TestLoginBadCredentials(t *testing.T) {
	s, app := setupTestServer(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	require.NoError(t, s.db.Create(&models.User{
		Username: "resident",
		Email:    "resident@example.com",
		Password: string(hashed),
	}).Error)

	resp, _ := postJSON(t, app, "/auth/login", map[string]string{
		"username": "resident",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = postJSON(t, app, "/auth/login", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
