package ports

import "context"

// TaskEnqueuer enqueues async tasks.
type TaskEnqueuer interface {
	EnqueueWebhook(ctx context.Context, event AuditEvent) error
}
