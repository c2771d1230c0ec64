package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdberries/market/models"
)

func TestCategoryFeed(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)
	ctx := context.Background()

	author, _ := createTestUser(t, app, "author")
	category, err := app.core.CreateCategory(ctx, &models.Category{Title: "Tools", Slug: "tools"})
	require.NoError(t, err)

	post, err := app.core.CreatePost(ctx, &models.Post{
		Title:      "handy tool",
		Body:       "body",
		PriceCents: 500,
		AuthorID:   author.ID,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	createTestPost(t, app, author.ID, "uncategorized", 500)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/category/tools/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, post.Title)
	assert.NotContains(t, body, "uncategorized")
}

func TestCategoryFeed_UnknownSlug(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/category/no-such-thing/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowedFeed_EmptyWithoutFollows(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)

	_, token := createTestUser(t, app, "reader")
	author, _ := createTestUser(t, app, "author")
	createTestPost(t, app, author.ID, "from an unfollowed author", 500)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/follow/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.NotContains(t, body, "from an unfollowed author")
	assert.Contains(t, body, `"totalItems": 0`)
}

func TestFollowedFeed_RequiresAuthentication(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/follow/", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next=%2Ffollow%2F", resp.Header.Get("Location"))
}

func TestIndexFeed_ServesCachedPageUntilCleared(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)
	ctx := context.Background()

	author, token := createTestUser(t, app, "author")
	post := createTestPost(t, app, author.ID, "soon to vanish", 500)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := readBody(t, resp)
	assert.Contains(t, first, post.Title)

	require.NoError(t, app.core.DeletePost(ctx, post.ID))

	// Within the TTL the stale copy is replayed byte for byte.
	resp = doRequest(t, client, http.MethodGet, server.URL+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first, readBody(t, resp))

	resp = doRequest(t, client, http.MethodPost, server.URL+"/secret/clear_cache/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, client, http.MethodGet, server.URL+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), post.Title)
}
