package core

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/nerdberries/market/internal/utils/databaseutils"
	"github.com/nerdberries/market/models"
)

var ErrDuplicateSlug = xerrors.Message("Duplicate slug")

func (c *Core) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	insertSQL := `
		INSERT INTO categories (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, title, slug, description
	`

	created, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanCategory,
		category.Title, category.Slug, category.Description)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), `duplicate key value violates unique constraint`):
			return nil, xerrors.New(ErrDuplicateSlug)
		default:
			return nil, xerrors.New(err)
		}
	}

	return created, nil
}

func (c *Core) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `
		SELECT id, title, slug, description
		FROM categories
		WHERE slug = $1
	`

	category, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanCategory, slug)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return category, nil
}

// CreateSlug derives a URL-stable slug from a title.
func (c *Core) CreateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))

	slug = strings.ReplaceAll(slug, " ", "-")
	replacements := []string{".", ",", "!", "?", ":", ";", "'", "\"", "(", ")", "[", "]", "{", "}", "/", "\\"}
	for _, char := range replacements {
		slug = strings.ReplaceAll(slug, char, "")
	}

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return strings.Trim(slug, "-")
}

func scanCategory(rows *sql.Rows) (*models.Category, error) {
	category := &models.Category{}

	if err := rows.Scan(
		&category.ID,
		&category.Title,
		&category.Slug,
		&category.Description,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return category, nil
}
