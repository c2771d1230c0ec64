package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/internal/utils/stringutils"
	"github.com/nerdberries/market/models"
)

var ErrDuplicateTitle = xerrors.Message("Duplicate title")

const postColumns = "id, title, body, price_cents, image_url, author_id, category_id, created_at"

func (c *Core) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	insertSQL := fmt.Sprintf(`
		INSERT INTO posts (title, body, price_cents, image_url, author_id, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, postColumns)

	created, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanPost,
		post.Title, post.Body, post.PriceCents, post.ImageURL, post.AuthorID, post.CategoryID, time.Now())
	if err != nil {
		switch {
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint`):
			return nil, xerrors.New(ErrDuplicateTitle)
		default:
			return nil, xerrors.New(err)
		}
	}

	return created, nil
}

func (c *Core) UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	updateSQL := fmt.Sprintf(`
		UPDATE posts
		SET title = $1, body = $2, price_cents = $3, image_url = $4, category_id = $5
		WHERE id = $6
		RETURNING %s
	`, postColumns)

	updated, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, updateSQL, scanPost,
		post.Title, post.Body, post.PriceCents, post.ImageURL, post.CategoryID, post.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint`):
			return nil, xerrors.New(ErrDuplicateTitle)
		default:
			return nil, xerrors.New(err)
		}
	}

	return updated, nil
}

// DeletePost hard-deletes a post, cascading to its comments.
func (c *Core) DeletePost(ctx context.Context, postID int64) error {
	deleteSQL := `
		DELETE FROM posts
		WHERE id = $1
	`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, postID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}

func (c *Core) GetPostByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE id = $1
	`, postColumns)

	post, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanPost, postID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return post, nil
}

// GetPosts returns the global feed, newest first. A non-empty search term
// narrows it with a parameterized match on title and body.
func (c *Core) GetPosts(ctx context.Context, search string) ([]*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		ORDER BY created_at DESC, id DESC
	`, postColumns)

	var args []any
	if search != "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM posts
			WHERE title ILIKE '%%' || $1 || '%%' OR body ILIKE '%%' || $1 || '%%'
			ORDER BY created_at DESC, id DESC
		`, postColumns)
		args = append(args, search)
	}

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return posts, nil
}

func (c *Core) GetPostsByCategoryID(ctx context.Context, categoryID int64) ([]*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE category_id = $1
		ORDER BY created_at DESC, id DESC
	`, postColumns)

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost, categoryID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return posts, nil
}

func (c *Core) GetPostsByAuthorID(ctx context.Context, authorID int64) ([]*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
	`, postColumns)

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost, authorID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return posts, nil
}

// GetFollowedPosts returns posts by every author the user follows. A user
// who follows nobody gets an empty feed, not an error.
func (c *Core) GetFollowedPosts(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE author_id IN (
			SELECT author_id FROM follows WHERE user_id = $1
		)
		ORDER BY created_at DESC, id DESC
	`, postColumns)

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost, userID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return posts, nil
}

func (c *Core) CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM posts WHERE author_id = $1
	`

	count, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanInt64, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, xerrors.New(err)
	}

	return count, nil
}

func (c *Core) GetPostsByIDList(ctx context.Context, postIDList []int64) ([]*models.Post, error) {
	if len(postIDList) == 0 {
		return []*models.Post{}, nil
	}

	placeholders, args := stringutils.INClause(postIDList)
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		WHERE id IN (%s)
	`, postColumns, strings.Join(placeholders, ", "))

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return posts, nil
}

func scanPost(rows *sql.Rows) (*models.Post, error) {
	post := &models.Post{}

	if err := rows.Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.PriceCents,
		&post.ImageURL,
		&post.AuthorID,
		&post.CategoryID,
		&post.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return post, nil
}
