package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/store"
)

const categoryColumns = `slug, name, count, image_url, created_at, updated_at`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.Slug,
		&c.Name,
		&c.Count,
		&c.ImageURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// UpsertCategory inserts or updates a category by slug.
func (s *Store) UpsertCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (slug, name, count, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			count = excluded.count,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at`,
		c.Slug,
		c.Name,
		c.Count,
		c.ImageURL,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	return err
}

// GetCategory retrieves a category by slug.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories ordered by slug.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes a category by slug.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) DeleteCategory(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = ?`, slug)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ReplaceCategories atomically replaces the whole category table.
// Used by the catalog importer.
func (s *Store) ReplaceCategories(ctx context.Context, categories []domain.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (slug, name, count, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range categories {
		c := &categories[i]
		if _, err := stmt.ExecContext(ctx,
			c.Slug,
			c.Name,
			c.Count,
			c.ImageURL,
			formatTime(c.CreatedAt),
			formatTime(c.UpdatedAt),
		); err != nil {
			return fmt.Errorf("insert category %s: %w", c.Slug, err)
		}
	}

	return tx.Commit()
}

// RefreshCategoryCounts recomputes every category's published product
// count from the products table.
func (s *Store) RefreshCategoryCounts(ctx context.Context) error {
	counts, err := s.CountProductsByCategory(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `UPDATE categories SET count = 0`); err != nil {
		return err
	}
	for slug, n := range counts {
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET count = ? WHERE slug = ?`, n, slug); err != nil {
			return err
		}
	}

	return tx.Commit()
}
