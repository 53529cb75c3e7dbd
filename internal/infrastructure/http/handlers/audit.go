package handlers

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
)

// Audit event names.
const (
	EventSignup        = "user.signup"
	EventLogin         = "user.login"
	EventLogout        = "user.logout"
	EventProjectCreate = "project.create"
)

// AuditLog logs auth and project events (user_id, resource_id, IP).
func AuditLog(log zerolog.Logger, r *http.Request, event ports.AuditEvent) {
	ev := log.Info()
	if !event.Success {
		ev = log.Warn()
	}
	ev.
		Str("event", event.Event).
		Str("user_id", event.UserID).
		Str("ip", event.IP).
		Str("request_id", event.RequestID).
		Bool("success", event.Success)
	if event.ResourceID != "" {
		ev.Str("resource_id", event.ResourceID)
	}
	if event.Err != "" {
		ev.Str("error", event.Err)
	}
	ev.Msg("audit")
}

// Auditor logs every event and hands it to the enqueuer for webhook delivery.
type Auditor struct {
	log      zerolog.Logger
	enqueuer ports.TaskEnqueuer
	now      func() time.Time
}

// NewAuditor returns an auditor. enqueuer may be nil, in which case events are only logged.
func NewAuditor(log zerolog.Logger, enqueuer ports.TaskEnqueuer) *Auditor {
	return &Auditor{log: log, enqueuer: enqueuer, now: time.Now}
}

// Emit records event for r. Delivery failures are logged and never reach the client.
func (a *Auditor) Emit(r *http.Request, event, userID, resourceID string, success bool, errMsg string) {
	ev := ports.AuditEvent{
		Event:      event,
		UserID:     userID,
		ResourceID: resourceID,
		IP:         getClientIP(r),
		RequestID:  middleware.GetReqID(r.Context()),
		Success:    success,
		Err:        errMsg,
		OccurredAt: a.now().UTC(),
	}
	AuditLog(a.log, r, ev)
	if a.enqueuer == nil {
		return
	}
	if err := a.enqueuer.EnqueueWebhook(r.Context(), ev); err != nil {
		a.log.Warn().Err(err).Str("event", event).Msg("audit webhook not queued")
	}
}

// getClientIP relies on chi's RealIP having already rewritten RemoteAddr.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
