package domain

import "time"

// Session is a refresh-token session. The refresh token itself is
// opaque and stored only as a hash.
type Session struct {
	Record
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	UserAgent        string    `json:"user_agent,omitempty"`
	LastUsedAt       time.Time `json:"last_used_at,omitzero"`
}

// IsExpired reports whether the session can no longer be refreshed.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
