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

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, created_at, updated_at, user_id, refresh_token_hash,
	expires_at, ip_address, user_agent, last_used_at`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.Session.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		createdAt  string
		updatedAt  string
		expiresAt  string
		ipAddress  sql.NullString
		userAgent  sql.NullString
		lastUsedAt sql.NullString
	)

	err := scanner.Scan(
		&sess.ID,
		&createdAt,
		&updatedAt,
		&sess.UserID,
		&sess.RefreshTokenHash,
		&expiresAt,
		&ipAddress,
		&userAgent,
		&lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	sess.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt, err = parseTime(expiresAt)
	if err != nil {
		return nil, err
	}

	if ipAddress.Valid {
		sess.IPAddress = ipAddress.String
	}
	if userAgent.Valid {
		sess.UserAgent = userAgent.String
	}
	if lastUsedAt.Valid && lastUsedAt.String != "" {
		sess.LastUsedAt, err = parseTime(lastUsedAt.String)
		if err != nil {
			return nil, err
		}
	}

	return &sess, nil
}

// CreateSession inserts a new session into the database.
// Returns store.ErrAlreadyExists if the session ID or token hash already
// exists.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, created_at, updated_at, user_id, refresh_token_hash,
			expires_at, ip_address, user_agent, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		session.UserID,
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		nullString(session.IPAddress),
		nullString(session.UserAgent),
		zeroableTimeString(session.LastUsedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSessionByTokenHash retrieves a session by its refresh token hash.
// Returns store.ErrNotFound if no session matches.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateSession performs a full row update, used for refresh token
// rotation. Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			updated_at = ?,
			refresh_token_hash = ?,
			expires_at = ?,
			ip_address = ?,
			user_agent = ?,
			last_used_at = ?
		WHERE id = ?`,
		formatTime(session.UpdatedAt),
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		nullString(session.IPAddress),
		nullString(session.UserAgent),
		zeroableTimeString(session.LastUsedAt),
		session.ID,
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

// DeleteSession removes a session. Returns store.ErrNotFound if it does
// not exist.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
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

// DeleteSessionsForUser removes all sessions belonging to a user.
func (s *Store) DeleteSessionsForUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry and returns
// how many were deleted.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
