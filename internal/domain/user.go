package domain

import "time"

// Role is the fixed set of privileges a credential may carry.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the credential owned by the identity provider.
type User struct {
	ID           int64
	Name         string
	Age          int
	Gender       string
	Weight       float64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
