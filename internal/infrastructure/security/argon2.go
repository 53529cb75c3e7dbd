package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Argon2Params configurable for hashing.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns OWASP-recommended defaults for Argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2Hasher implements ports.PasswordHasher using Argon2id.
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params.withDefaults()}
}

func (p Argon2Params) withDefaults() Argon2Params {
	def := DefaultArgon2Params()
	if p.Memory == 0 {
		p.Memory = def.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.SaltLength == 0 {
		p.SaltLength = def.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = def.KeyLength
	}
	return p
}

// argon2Hash is the decoded form of "$argon2id$v=19$m=..,t=..,p=..$salt$key".
type argon2Hash struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (a argon2Hash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), a.salt, a.iterations, a.memory, a.parallelism, uint32(len(a.key)))
}

func (a argon2Hash) String() string {
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s", argon2Prefix, argon2.Version,
		a.memory, a.iterations, a.parallelism,
		base64.RawStdEncoding.EncodeToString(a.salt),
		base64.RawStdEncoding.EncodeToString(a.key))
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}
	a := argon2Hash{
		memory:      h.params.Memory,
		iterations:  h.params.Iterations,
		parallelism: h.params.Parallelism,
		salt:        make([]byte, h.params.SaltLength),
		key:         make([]byte, h.params.KeyLength),
	}
	if _, err := rand.Read(a.salt); err != nil {
		return "", fmt.Errorf("argon2 salt: %w", err)
	}
	a.key = a.derive(password)
	return a.String(), nil
}

func (h *Argon2Hasher) Verify(password, encoded string) bool {
	a, err := parseArgon2Hash(encoded)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(a.key, a.derive(password)) == 1
}

func parseArgon2Hash(encoded string) (argon2Hash, error) {
	var a argon2Hash
	rest, ok := strings.CutPrefix(encoded, argon2Prefix)
	if !ok {
		return a, errors.New("not an argon2id hash")
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return a, errors.New("invalid argon2 hash format")
	}
	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return a, errors.New("unsupported argon2 version")
	}
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &a.memory, &a.iterations, &a.parallelism); err != nil {
		return a, fmt.Errorf("argon2 params: %w", err)
	}
	if a.memory == 0 || a.iterations == 0 || a.parallelism == 0 {
		return a, errors.New("argon2 params out of range")
	}
	var err error
	if a.salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return a, fmt.Errorf("argon2 salt: %w", err)
	}
	if a.key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil {
		return a, fmt.Errorf("argon2 key: %w", err)
	}
	if len(a.key) == 0 {
		return a, errors.New("empty argon2 key")
	}
	return a, nil
}
