package auth

import (
	"time"

	"github.com/davedeals/davedeals-server/internal/domain"
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they are not readable
// without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin reports whether the token belongs to an admin.
func (c *AccessClaims) IsAdmin() bool {
	return domain.Role(c.Role) == domain.RoleAdmin
}

// CanSell reports whether the token belongs to a seller or admin.
func (c *AccessClaims) CanSell() bool {
	r := domain.Role(c.Role)
	return r == domain.RoleSeller || r == domain.RoleAdmin
}
