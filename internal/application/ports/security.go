package ports

import "github.com/Asjad-Ilahi/devops/internal/domain"

// PasswordHasher hashes and verifies passwords. Verify never errors; a malformed hash is a mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and validates stateless session tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
	// Verify returns false for malformed, tampered or expired tokens.
	Verify(token string) (*domain.SessionClaims, bool)
}
