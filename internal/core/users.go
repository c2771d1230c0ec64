package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/auth"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/internal/utils/stringutils"
	"github.com/nerdberries/market/models"
)

var (
	ErrDuplicateEmail    = xerrors.Message("Duplicate email")
	ErrDuplicateUsername = xerrors.Message("Duplicate username")
	NoRecordFound        = xerrors.Message("No record found")
)

func (c *Core) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	args := []any{user.Username, user.Email, user.Password}
	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		switch {
		case strings.Contains(err.Error(), `"users_email_key"`):
			return xerrors.New(ErrDuplicateEmail)
		case strings.Contains(err.Error(), `"users_username_key"`):
			return xerrors.New(ErrDuplicateUsername)
		default:
			return xerrors.New(err)
		}
	}

	return nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, username, password, bio, image
		FROM users
		WHERE email = $1
	`

	return c.getSingleUser(ctx, query, email)
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `
		SELECT id, email, username, password, bio, image
		FROM users
		WHERE username = $1
	`

	return c.getSingleUser(ctx, query, username)
}

func (c *Core) getSingleUser(ctx context.Context, query string, arg any) (*auth.User, error) {
	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, arg)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

func (c *Core) GetUsersByIDList(ctx context.Context, userIDList []int64) ([]*auth.User, error) {
	if len(userIDList) == 0 {
		return []*auth.User{}, nil
	}

	placeholders, args := stringutils.INClause(userIDList)
	query := fmt.Sprintf(`
		SELECT id, email, username, password, bio, image
		FROM users
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	queryResultList, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return queryResultList, nil
}

// GetProfile is the public view of a user.
func (c *Core) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:       user.ID,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}, nil
}

func scanUser(rows *sql.Rows) (*auth.User, error) {
	user := &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Bio,
		&user.Image,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}
