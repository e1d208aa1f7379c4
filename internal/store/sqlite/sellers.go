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

const sellerColumns = `id, created_at, updated_at, deleted_at, user_id, display_name, region_id`

func scanSeller(scanner interface{ Scan(dest ...any) error }) (*domain.Seller, error) {
	var sel domain.Seller

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		regionID  sql.NullString
	)

	err := scanner.Scan(
		&sel.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&sel.UserID,
		&sel.DisplayName,
		&regionID,
	)
	if err != nil {
		return nil, err
	}

	sel.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sel.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	sel.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if regionID.Valid {
		sel.RegionID = regionID.String
	}

	return &sel, nil
}

// CreateSeller inserts a new seller profile.
// Returns store.ErrAlreadyExists if the user already has one.
func (s *Store) CreateSeller(ctx context.Context, seller *domain.Seller) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sellers (id, created_at, updated_at, deleted_at, user_id, display_name, region_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seller.ID,
		formatTime(seller.CreatedAt),
		formatTime(seller.UpdatedAt),
		nullTimeString(seller.DeletedAt),
		seller.UserID,
		seller.DisplayName,
		nullString(seller.RegionID),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSeller retrieves a seller profile by ID, excluding soft-deleted
// records. Returns store.ErrNotFound if it does not exist.
func (s *Store) GetSeller(ctx context.Context, id string) (*domain.Seller, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sellerColumns+` FROM sellers WHERE id = ? AND deleted_at IS NULL`, id)

	sel, err := scanSeller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// GetSellerByUserID retrieves the seller profile attached to a user.
// Returns store.ErrNotFound if the user has none.
func (s *Store) GetSellerByUserID(ctx context.Context, userID string) (*domain.Seller, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sellerColumns+` FROM sellers WHERE user_id = ? AND deleted_at IS NULL`, userID)

	sel, err := scanSeller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// UpdateSeller performs a full row update on a seller profile.
// Returns store.ErrNotFound if it does not exist or is soft-deleted.
func (s *Store) UpdateSeller(ctx context.Context, seller *domain.Seller) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sellers SET
			updated_at = ?,
			display_name = ?,
			region_id = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(seller.UpdatedAt),
		seller.DisplayName,
		nullString(seller.RegionID),
		seller.ID,
	)
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

// DeleteSeller performs a soft delete on a seller profile.
// Returns store.ErrNotFound if it does not exist or is already deleted.
func (s *Store) DeleteSeller(ctx context.Context, id string) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx,
		`UPDATE sellers SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
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
