package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/cache"
	"github.com/nerdberries/market/internal/core"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/migrations"
	"github.com/nerdberries/market/models"
)

// newTestApplication wires a full application against the database named by
// TEST_DATABASE_URL, with a clean schema and an empty page cache. Tests are
// skipped when the variable is unset.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))

	_, err = db.Exec("TRUNCATE purchases, follows, comments, posts, categories, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sqlTemplate := databaseutils.NewSQLTemplate(db, 3*time.Second)

	return &application{
		config: config{
			port:         "0",
			env:          "test",
			jwtSecret:    "test-secret",
			postsPerPage: 10,
			cacheTTL:     time.Minute,
		},
		logger:    logger,
		core:      core.NewCore(db, logger, sqlTemplate),
		auth:      auth.New("test-secret"),
		session:   databaseutils.NewSession(db, logger),
		pageCache: cache.New[cachedPage](time.Minute),
	}
}

func newTestServer(t *testing.T, app *application) (*httptest.Server, *http.Client) {
	t.Helper()

	server := httptest.NewServer(app.routes())
	t.Cleanup(server.Close)

	// Redirects are assertions in these tests, never follow them.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return server, client
}

func createTestUser(t *testing.T, app *application, username string) (*auth.User, string) {
	t.Helper()

	user := &auth.User{
		Email:    username + "@example.com",
		Username: username,
	}
	require.NoError(t, user.SetPassword("correct-horse-battery"))
	require.NoError(t, app.core.CreateUser(context.Background(), user))

	token, err := app.auth.GenerateToken(user, time.Hour)
	require.NoError(t, err)

	return user, token
}

func createTestPost(t *testing.T, app *application, authorID int64, title string, priceCents int64) *models.Post {
	t.Helper()

	post, err := app.core.CreatePost(context.Background(), &models.Post{
		Title:      title,
		Body:       "body of " + title,
		PriceCents: priceCents,
		AuthorID:   authorID,
	})
	require.NoError(t, err)

	return post
}

func doRequest(t *testing.T, client *http.Client, method, url, token string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, resp.Body.Close())
	})

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
