package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
)

// CookieReader reads the raw session token from a request.
type CookieReader interface {
	Read(r *http.Request) (string, bool)
}

// SessionResolver verifies the session cookie once per request. It never rejects: a missing or
// invalid token leaves the request anonymous and the handler decides.
type SessionResolver struct {
	issuer  ports.TokenIssuer
	cookies CookieReader
	log     zerolog.Logger
}

func NewSessionResolver(issuer ports.TokenIssuer, cookies CookieReader, log zerolog.Logger) *SessionResolver {
	return &SessionResolver{issuer: issuer, cookies: cookies, log: log}
}

func (m *SessionResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.cookies.Read(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, ok := m.issuer.Verify(token)
		if !ok {
			m.log.Debug().Str("path", r.URL.Path).Msg("session token rejected")
			next.ServeHTTP(w, r)
			return
		}
		identity := claims.Identity
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), &identity)))
	})
}
