package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
)

func TestHTTPEmitter_Emit(t *testing.T) {
	var got ports.AuditEvent
	var auth, eventHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		eventHeader = r.Header.Get("X-Devops-Event")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithHeader("Authorization", "Bearer hook"))
	event := ports.AuditEvent{
		Event:      "project.create",
		UserID:     "u1",
		ResourceID: "p1",
		Success:    true,
		OccurredAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.Emit(context.Background(), event))
	assert.Equal(t, event, got)
	assert.Equal(t, "Bearer hook", auth)
	assert.Equal(t, "project.create", eventHeader)
}

func TestHTTPEmitter_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPEmitter(srv.URL, WithClient(srv.Client())).Emit(context.Background(), ports.AuditEvent{Event: "user.login"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
}

func TestHTTPEmitter_SignsBody(t *testing.T) {
	var body []byte
	var signature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get(HeaderSignature)
		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		body = b
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithSigningSecret("shh"))
	require.NoError(t, e.Emit(context.Background(), ports.AuditEvent{Event: "user.signup", Success: true}))

	mac := hmac.New(sha256.New, []byte("shh"))
	mac.Write(body)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), signature)
}

func TestHTTPEmitter_NoSignatureWithoutSecret(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[HeaderSignature]
	}))
	defer srv.Close()

	require.NoError(t, NewHTTPEmitter(srv.URL, WithSigningSecret("")).Emit(context.Background(), ports.AuditEvent{Event: "user.login"}))
	assert.False(t, present)
}
