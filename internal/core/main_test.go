package core

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/migrations"
	"github.com/nerdberries/market/models"
)

// newTestCore connects to the database named by TEST_DATABASE_URL, brings
// the schema up to date and wipes all rows. Tests that need it are skipped
// when the variable is unset.
func newTestCore(t *testing.T) *Core {
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
	return NewCore(db, logger, databaseutils.NewSQLTemplate(db, 3*time.Second))
}

func createTestUser(t *testing.T, c *Core, username string) *auth.User {
	t.Helper()

	user := &auth.User{
		Email:    username + "@example.com",
		Username: username,
	}
	require.NoError(t, user.SetPassword("correct-horse-battery"))
	require.NoError(t, c.CreateUser(context.Background(), user))

	return user
}

func createTestPost(t *testing.T, c *Core, authorID int64, title string, priceCents int64) *models.Post {
	t.Helper()

	post, err := c.CreatePost(context.Background(), &models.Post{
		Title:      title,
		Body:       fmt.Sprintf("body of %s", title),
		PriceCents: priceCents,
		AuthorID:   authorID,
	})
	require.NoError(t, err)

	return post
}
