package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/utils/databaseutils"
)

// Follow ensures exactly one follow row exists for the pair. The insert is a
// single atomic statement so concurrent duplicate requests cannot produce two
// rows. A self-follow is silently ignored.
func (c *Core) Follow(ctx context.Context, followerID, authorID int64) error {
	if followerID == authorID {
		return nil
	}

	insertSQL := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, followerID, authorID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// Unfollow ensures zero follow rows exist for the pair. Deleting a missing
// row is a no-op, not an error.
func (c *Core) Unfollow(ctx context.Context, followerID, authorID int64) error {
	deleteSQL := `
		DELETE FROM follows
		WHERE user_id = $1 AND author_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, followerID, authorID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

func (c *Core) IsFollowing(ctx context.Context, followerID, authorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2
		)
	`

	following, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanBool, followerID, authorID)
	if err != nil {
		return false, xerrors.New(err)
	}

	return following, nil
}

func (c *Core) CountFollows(ctx context.Context, followerID, authorID int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM follows WHERE user_id = $1 AND author_id = $2
	`

	count, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanInt64, followerID, authorID)
	if err != nil {
		return 0, xerrors.New(err)
	}

	return count, nil
}

func scanBool(rows *sql.Rows) (bool, error) {
	var b bool
	if err := rows.Scan(&b); err != nil {
		return false, xerrors.New(err)
	}
	return b, nil
}

func scanInt64(rows *sql.Rows) (int64, error) {
	var n int64
	if err := rows.Scan(&n); err != nil {
		return 0, xerrors.New(err)
	}
	return n, nil
}
