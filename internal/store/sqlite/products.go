package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/store"
)

// productColumns is the ordered list of columns selected in product
// queries. Must match the scan order in scanProduct.
const productColumns = `id, created_at, updated_at, deleted_at, title, description,
	price, currency, category_slug, category_name, rating, reviews_count,
	thumbnail, images, seller_id, region_id, status`

// scanProduct scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Product.
func scanProduct(scanner interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var p domain.Product

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		images    string
		sellerID  sql.NullString
		regionID  sql.NullString
		status    string
	)

	err := scanner.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Currency,
		&p.CategorySlug,
		&p.CategoryName,
		&p.Rating,
		&p.ReviewsCount,
		&p.Thumbnail,
		&images,
		&sellerID,
		&regionID,
		&status,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	p.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	if images != "" && images != "[]" {
		if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
			return nil, fmt.Errorf("parse images for product %s: %w", p.ID, err)
		}
	}

	if sellerID.Valid {
		p.SellerID = sellerID.String
	}
	if regionID.Valid {
		p.RegionID = regionID.String
	}
	p.Status = domain.ProductStatus(status)

	return &p, nil
}

func marshalImages(images []string) (string, error) {
	if len(images) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("marshal images: %w", err)
	}
	return string(b), nil
}

// CreateProduct inserts a new product.
// Returns store.ErrAlreadyExists if the product ID already exists.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	images, err := marshalImages(p.Images)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, created_at, updated_at, deleted_at, title, description,
			price, currency, category_slug, category_name, rating, reviews_count,
			thumbnail, images, seller_id, region_id, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		nullTimeString(p.DeletedAt),
		p.Title,
		p.Description,
		p.Price,
		p.Currency,
		p.CategorySlug,
		p.CategoryName,
		p.Rating,
		p.ReviewsCount,
		p.Thumbnail,
		images,
		nullString(p.SellerID),
		nullString(p.RegionID),
		string(p.Status),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetProduct retrieves a product by ID, excluding soft-deleted records.
// Returns store.ErrNotFound if the product does not exist.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ? AND deleted_at IS NULL`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProductFilter narrows ListProducts. Zero values mean "any".
type ProductFilter struct {
	Status       domain.ProductStatus
	CategorySlug string
	SellerID     string
	RegionID     string
}

// ListProducts returns a page of non-deleted products matching the
// filter, ordered by ID for stable cursors.
func (s *Store) ListProducts(ctx context.Context, filter ProductFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Product], error) {
	params.Validate()

	afterID, err := store.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL AND id > ?`
	args := []any{afterID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.CategorySlug != "" {
		query += ` AND category_slug = ?`
		args = append(args, filter.CategorySlug)
	}
	if filter.SellerID != "" {
		query += ` AND seller_id = ?`
		args = append(args, filter.SellerID)
	}
	if filter.RegionID != "" {
		query += ` AND region_id = ?`
		args = append(args, filter.RegionID)
	}

	// Fetch one extra row to detect whether more pages exist.
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &store.PaginatedResult[*domain.Product]{Items: products}
	if len(products) > params.Limit {
		result.Items = products[:params.Limit]
		result.HasMore = true
		result.NextCursor = store.EncodeCursor(result.Items[len(result.Items)-1].ID)
	}
	return result, nil
}

// ListPublishedProducts returns every published, non-deleted product.
// This feeds the in-memory catalog snapshot, which the storefront
// rotations slice up, so it deliberately skips pagination.
func (s *Store) ListPublishedProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE deleted_at IS NULL AND status = ?
		 ORDER BY id ASC`, string(domain.ProductStatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct performs a full row update on an existing product.
// Returns store.ErrNotFound if the product does not exist or is
// soft-deleted.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	images, err := marshalImages(p.Images)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			updated_at = ?,
			title = ?,
			description = ?,
			price = ?,
			currency = ?,
			category_slug = ?,
			category_name = ?,
			rating = ?,
			reviews_count = ?,
			thumbnail = ?,
			images = ?,
			seller_id = ?,
			region_id = ?,
			status = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(p.UpdatedAt),
		p.Title,
		p.Description,
		p.Price,
		p.Currency,
		p.CategorySlug,
		p.CategoryName,
		p.Rating,
		p.ReviewsCount,
		p.Thumbnail,
		images,
		nullString(p.SellerID),
		nullString(p.RegionID),
		string(p.Status),
		p.ID,
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

// DeleteProduct performs a soft delete.
// Returns store.ErrNotFound if the product does not exist or is already
// deleted.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
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

// ReplaceProducts atomically replaces the whole product table with the
// given set. Used by the catalog importer.
func (s *Store) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (
			id, created_at, updated_at, deleted_at, title, description,
			price, currency, category_slug, category_name, rating, reviews_count,
			thumbnail, images, seller_id, region_id, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range products {
		p := &products[i]
		images, err := marshalImages(p.Images)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID,
			formatTime(p.CreatedAt),
			formatTime(p.UpdatedAt),
			nullTimeString(p.DeletedAt),
			p.Title,
			p.Description,
			p.Price,
			p.Currency,
			p.CategorySlug,
			p.CategoryName,
			p.Rating,
			p.ReviewsCount,
			p.Thumbnail,
			images,
			nullString(p.SellerID),
			nullString(p.RegionID),
			string(p.Status),
		); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// CountProductsByCategory returns published product counts keyed by
// category slug.
func (s *Store) CountProductsByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_slug, COUNT(*) FROM products
		WHERE deleted_at IS NULL AND status = ?
		GROUP BY category_slug`, string(domain.ProductStatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slug string
		var n int
		if err := rows.Scan(&slug, &n); err != nil {
			return nil, err
		}
		counts[slug] = n
	}
	return counts, rows.Err()
}
