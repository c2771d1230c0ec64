package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditPost_NonAuthorIsRedirectedWithoutChanges(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)
	ctx := context.Background()

	author, _ := createTestUser(t, app, "author")
	_, intruderToken := createTestUser(t, app, "intruder")
	post := createTestPost(t, app, author.ID, "original title", 500)

	payload := strings.NewReader(`{"post": {"title": "hijacked", "body": "hijacked", "priceCents": 1}}`)
	url := fmt.Sprintf("%s/posts/%d/edit/", server.URL, post.ID)

	resp := doRequest(t, client, http.MethodPost, url, intruderToken, payload)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))

	got, err := app.core.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original title", got.Title)
	assert.Equal(t, int64(500), got.PriceCents)
}

func TestEditPost_AuthorCanUpdate(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)
	ctx := context.Background()

	author, token := createTestUser(t, app, "author")
	post := createTestPost(t, app, author.ID, "original title", 500)

	payload := strings.NewReader(`{"post": {"title": "revised title", "body": "revised body", "priceCents": 900}}`)
	url := fmt.Sprintf("%s/posts/%d/edit/", server.URL, post.ID)

	resp := doRequest(t, client, http.MethodPost, url, token, payload)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))

	got, err := app.core.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised title", got.Title)
	assert.Equal(t, int64(900), got.PriceCents)
}

func TestCreatePost_AnonymousIsSentToLogin(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/create/", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", resp.Header.Get("Location"))
}

func TestPostDetail_UnknownIDIsNotFound(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)

	resp := doRequest(t, client, http.MethodGet, server.URL+"/posts/424242/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurchaseFlow_RedirectsWithStatus(t *testing.T) {
	app := newTestApplication(t)
	server, client := newTestServer(t, app)

	author, _ := createTestUser(t, app, "author")
	_, buyerToken := createTestUser(t, app, "buyer")
	post := createTestPost(t, app, author.ID, "useful script", 1500)

	url := fmt.Sprintf("%s/posts/%d/purchase/", server.URL, post.ID)
	resp := doRequest(t, client, http.MethodGet, url, buyerToken, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/purchases/?status=purchased", resp.Header.Get("Location"))

	resp = doRequest(t, client, http.MethodGet, server.URL+"/purchases/", buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "useful script")

	url = fmt.Sprintf("%s/posts/%d/return/", server.URL, post.ID)
	resp = doRequest(t, client, http.MethodGet, url, buyerToken, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/purchases/?status=returned", resp.Header.Get("Location"))
}
