package domain

import "time"

// Role enumerates the authorization tiers known to the platform.
type Role string

const (
	RoleCitizen Role = "CITIZEN"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is a member of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAdmin:
		return true
	}
	return false
}

// User mirrors the persisted representation in the users table.
//
// Role and Admin are stored independently; the HTTP boundary gates
// admin-only operations on the Admin flag carried in the token.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Admin        bool
	ProviderID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy with credential material removed.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
