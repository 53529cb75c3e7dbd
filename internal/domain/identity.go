package domain

import "time"

// Identity is the authenticated caller, resolved once per request from the session cookie.
type Identity struct {
	UserID   UserID
	Username string
	Name     string
}

// SessionClaims is what a verified session token carries.
type SessionClaims struct {
	Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
