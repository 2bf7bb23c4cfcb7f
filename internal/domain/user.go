package domain

import "time"

// Role represents a user role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered user.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity is what the authorization layer supplies for the current
// request. IsAdmin widens visibility but never bypasses sufficiency or
// referential checks.
type Identity struct {
	UserID  string
	IsAdmin bool
}
