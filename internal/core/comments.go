package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/models"
)

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	insertSQL := `
		INSERT INTO comments (body, post_id, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, body, post_id, author_id, created_at
	`

	newComment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanComment,
		comment.Body, comment.PostID, comment.AuthorID, time.Now())
	if err != nil {
		return nil, xerrors.New(err)
	}

	return newComment, nil
}

func (c *Core) GetCommentsByPostID(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, body, post_id, author_id, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, postID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return comments, nil
}

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	comment := &models.Comment{}

	if err := rows.Scan(
		&comment.ID,
		&comment.Body,
		&comment.PostID,
		&comment.AuthorID,
		&comment.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return comment, nil
}
