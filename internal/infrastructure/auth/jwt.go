package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
	"github.com/Asjad-Ilahi/devops/internal/domain"
)

// DefaultTTL is the session lifetime stamped into every token.
const DefaultTTL = 7 * 24 * time.Hour

// TokenIssuer implements ports.TokenIssuer. Tokens are HS256 by default and RS256 when built from an RSA key.
type TokenIssuer struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Option configures a TokenIssuer.
type Option func(*TokenIssuer)

// WithIssuer sets the iss claim and requires it on verify.
func WithIssuer(issuer string) Option {
	return func(t *TokenIssuer) { t.issuer = issuer }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(t *TokenIssuer) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(t *TokenIssuer) { t.now = now }
}

// NewHMACTokenIssuer signs with HS256 and a shared secret.
func NewHMACTokenIssuer(secret []byte, opts ...Option) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	return newTokenIssuer(jwt.SigningMethodHS256, secret, secret, opts), nil
}

// NewRSATokenIssuer signs with RS256.
func NewRSATokenIssuer(privateKey *rsa.PrivateKey, opts ...Option) *TokenIssuer {
	return newTokenIssuer(jwt.SigningMethodRS256, privateKey, &privateKey.PublicKey, opts)
}

func newTokenIssuer(method jwt.SigningMethod, signKey, verifyKey interface{}, opts []Option) *TokenIssuer {
	t := &TokenIssuer{
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		ttl:       DefaultTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TTL reports the lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

func (t *TokenIssuer) Issue(identity domain.Identity) (string, error) {
	now := t.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID:   identity.UserID.String(),
		Username: identity.Username,
		Name:     identity.Name,
	}
	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.signKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Verify(tokenString string) (*domain.SessionClaims, bool) {
	if tokenString == "" {
		return nil, false
	}
	claims, err := t.parseClaims(tokenString)
	if err != nil {
		return nil, false
	}
	userID, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return nil, false
	}
	out := &domain.SessionClaims{
		Identity: domain.Identity{
			UserID:   userID,
			Username: claims.Username,
			Name:     claims.Name,
		},
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, true
}

func (t *TokenIssuer) parseClaims(tokenString string) (*sessionClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(t.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.verifyKey, nil
	}, parserOpts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
