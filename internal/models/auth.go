package models

// SessionClaims are the identity fields read from a verified bearer token.
type SessionClaims struct {
	UserID string
	Email  string
	Role   UserRole
}
