package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/models"
)

// Purchase ensures exactly one purchase row exists for the pair. The price
// snapshot is read from the posts row inside the same statement, so the
// captured price and the insert are atomic. Re-invocation is absorbed by the
// conflict clause and never overwrites an earlier snapshot.
func (c *Core) Purchase(ctx context.Context, userID, postID int64) error {
	insertSQL := `
		INSERT INTO purchases (user_id, post_id, price_cents, created_at)
		SELECT $1, p.id, p.price_cents, now()
		FROM posts p
		WHERE p.id = $2
		ON CONFLICT (user_id, post_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, userID, postID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// Refund ensures zero purchase rows exist for the pair.
func (c *Core) Refund(ctx context.Context, userID, postID int64) error {
	deleteSQL := `
		DELETE FROM purchases
		WHERE user_id = $1 AND post_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, userID, postID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

func (c *Core) HasPurchased(ctx context.Context, userID, postID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM purchases WHERE user_id = $1 AND post_id = $2
		)
	`

	purchased, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanBool, userID, postID)
	if err != nil {
		return false, xerrors.New(err)
	}

	return purchased, nil
}

func (c *Core) GetPurchaseByUserAndPost(ctx context.Context, userID, postID int64) (*models.Purchase, error) {
	query := `
		SELECT id, user_id, post_id, price_cents, created_at
		FROM purchases
		WHERE user_id = $1 AND post_id = $2
	`

	purchase, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanPurchase, userID, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return purchase, nil
}

func (c *Core) GetPurchasesByUser(ctx context.Context, userID int64) ([]*models.Purchase, error) {
	query := `
		SELECT id, user_id, post_id, price_cents, created_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	purchases, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPurchase, userID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return purchases, nil
}

func scanPurchase(rows *sql.Rows) (*models.Purchase, error) {
	purchase := &models.Purchase{}

	if err := rows.Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.PostID,
		&purchase.PriceCents,
		&purchase.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return purchase, nil
}
