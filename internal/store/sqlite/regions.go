package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/store"
)

const regionColumns = `id, created_at, updated_at, deleted_at, name, code`

func scanRegion(scanner interface{ Scan(dest ...any) error }) (*domain.Region, error) {
	var r domain.Region

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		code      sql.NullString
	)

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&r.Name,
		&code,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	r.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if code.Valid {
		r.Code = code.String
	}

	return &r, nil
}

// CreateRegion inserts a new region.
// Returns store.ErrAlreadyExists if the ID or code already exists.
func (s *Store) CreateRegion(ctx context.Context, region *domain.Region) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO regions (id, created_at, updated_at, deleted_at, name, code)
		VALUES (?, ?, ?, ?, ?, ?)`,
		region.ID,
		formatTime(region.CreatedAt),
		formatTime(region.UpdatedAt),
		nullTimeString(region.DeletedAt),
		region.Name,
		nullString(region.Code),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetRegion retrieves a region by ID, excluding soft-deleted records.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetRegion(ctx context.Context, id string) (*domain.Region, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+regionColumns+` FROM regions WHERE id = ? AND deleted_at IS NULL`, id)

	r, err := scanRegion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRegions returns all non-deleted regions ordered by name.
func (s *Store) ListRegions(ctx context.Context) ([]domain.Region, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+regionColumns+` FROM regions WHERE deleted_at IS NULL ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []domain.Region
	for rows.Next() {
		r, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regions, nil
}

// UpdateRegion performs a full row update.
// Returns store.ErrNotFound if the region does not exist or is deleted.
func (s *Store) UpdateRegion(ctx context.Context, region *domain.Region) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE regions SET
			updated_at = ?,
			name = ?,
			code = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(region.UpdatedAt),
		region.Name,
		nullString(region.Code),
		region.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteRegion performs a soft delete.
// Returns store.ErrNotFound if the region does not exist or is deleted.
func (s *Store) DeleteRegion(ctx context.Context, id string) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx,
		`UPDATE regions SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
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
