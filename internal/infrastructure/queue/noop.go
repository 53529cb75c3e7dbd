package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/ports"
)

// NoopEnqueuer drops events when no webhook is configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueWebhook(context.Context, ports.AuditEvent) error {
	return nil
}

// DirectEnqueuer delivers events inline when a webhook is configured but Redis is not.
// Delivery runs detached from the request so a slow endpoint never delays the response.
type DirectEnqueuer struct {
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

func NewDirectEnqueuer(emitter ports.WebhookEmitter, log zerolog.Logger) *DirectEnqueuer {
	return &DirectEnqueuer{emitter: emitter, log: log}
}

func (q *DirectEnqueuer) EnqueueWebhook(ctx context.Context, event ports.AuditEvent) error {
	go func() {
		if err := q.emitter.Emit(context.WithoutCancel(ctx), event); err != nil {
			q.log.Warn().Err(err).Str("event", event.Event).Msg("webhook delivery failed")
		}
	}()
	return nil
}

var (
	_ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
	_ ports.TaskEnqueuer = (*DirectEnqueuer)(nil)
)
