package domain

import "time"

// Role represents the user's permission level in the marketplace.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleSeller can create and manage their own product listings.
	RoleSeller Role = "seller"
	// RoleBuyer is the default storefront account.
	RoleBuyer Role = "buyer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Name         string    `json:"name,omitempty"`
	Role         Role      `json:"role"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSeller returns true if the user can manage listings. Admins can
// always manage listings.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller || u.Role == RoleAdmin
}
