package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndMe(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.register(t, "alice")
	require.NotEmpty(t, cookie.Value)

	resp := env.jsonRequest(t, http.MethodGet, "/api/users/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user struct {
		models.User
		Email string `json:"email"`
	}
	decodeBody(t, resp, &user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.Profile)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Fields, "username")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	resp := env.jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "Password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterWhileLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "alice")

	resp := env.jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "Password123",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	t.Run("wrong password", func(t *testing.T) {
		resp := env.jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "WrongPass123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		resp := env.jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "Password123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("success sets session cookie", func(t *testing.T) {
		resp := env.jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "Password123",
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var found bool
		for _, cookie := range resp.Cookies() {
			if cookie.Name == session.CookieName && cookie.Value != "" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "alice")

	resp := env.jsonRequest(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The session is gone server-side, the old cookie no longer works.
	resp = env.jsonRequest(t, http.MethodGet, "/api/users/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logging out again is harmless.
	resp = env.jsonRequest(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.jsonRequest(t, http.MethodGet, "/api/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.jsonRequest(t, http.MethodPost, "/api/posts/1/comments", map[string]string{"content": "hi"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
