package domain

import "time"

// AuthorizationContext is the verified identity behind a bearer token.
// It lives for a single request and is never persisted.
type AuthorizationContext struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role.
func (a AuthorizationContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IssuedToken describes a freshly signed access token.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
