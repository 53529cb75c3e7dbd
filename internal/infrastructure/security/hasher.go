package security

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmArgon2 = "argon2"
)

// Hasher writes new hashes with the configured algorithm and verifies either format,
// so stored hashes survive a change of PASSWORD_HASHER.
type Hasher struct {
	primary ports.PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

// NewHasher picks the algorithm for new hashes.
func NewHasher(algorithm string, bcryptCost int, argon Argon2Params) (*Hasher, error) {
	h := &Hasher{
		bcrypt: NewBcryptHasher(bcryptCost),
		argon2: NewArgon2Hasher(argon),
	}
	switch algorithm {
	case "", AlgorithmBcrypt:
		h.primary = h.bcrypt
	case AlgorithmArgon2:
		h.primary = h.argon2
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
	return h, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *Hasher) Verify(password, hash string) bool {
	switch {
	case isBcryptHash(hash):
		return h.bcrypt.Verify(password, hash)
	case strings.HasPrefix(hash, argon2Prefix):
		return h.argon2.Verify(password, hash)
	default:
		return false
	}
}

func checkPassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: empty password", domerrors.ErrInvalidInput)
	}
	if !utf8.ValidString(password) {
		return fmt.Errorf("%w: password is not valid UTF-8", domerrors.ErrInvalidInput)
	}
	return nil
}

var (
	_ ports.PasswordHasher = (*Hasher)(nil)
	_ ports.PasswordHasher = (*BcryptHasher)(nil)
	_ ports.PasswordHasher = (*Argon2Hasher)(nil)
)
