package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategoriesWithCounts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	alice := env.userByUsername(t, "alice")
	goCat := seedCategory(t, env, "Go", "go")
	seedCategory(t, env, "Travel", "travel")
	seedPostRow(t, env, alice.ID, "One", "one", 0, time.Now(), &goCat.ID)

	resp := env.jsonRequest(t, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Categories []models.Category `json:"categories"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "Go", body.Categories[0].Name)
	assert.EqualValues(t, 1, body.Categories[0].PostsCount)
	assert.EqualValues(t, 0, body.Categories[1].PostsCount)
}

func TestCategoryAdminGate(t *testing.T) {
	env := newTestEnv(t)
	userCookie := env.register(t, "alice")

	resp := env.jsonRequest(t, http.MethodPost, "/api/categories",
		map[string]string{"name": "Go"}, userCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	env.makeAdmin(t, "alice")
	resp = env.jsonRequest(t, http.MethodPost, "/api/categories",
		map[string]string{"name": "Go"}, userCookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category models.Category
	decodeBody(t, resp, &category)
	assert.Equal(t, "go", category.Slug)
}

func TestDeleteCategoryCascades(t *testing.T) {
	env := newTestEnv(t)
	adminCookie := env.register(t, "admin1")
	env.makeAdmin(t, "admin1")
	admin := env.userByUsername(t, "admin1")

	category := seedCategory(t, env, "Go", "go")
	post := seedPostRow(t, env, admin.ID, "Inside", "inside", 0, time.Now(), &category.ID)

	resp := env.jsonRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/categories/%d", category.ID), nil, adminCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.jsonRequest(t, http.MethodGet,
		fmt.Sprintf("/api/posts/%d/%s", post.ID, post.Slug), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
