package ports

import (
	"context"
	"time"

	"github.com/opsdesk/console/internal/core/domain"
)

// AuditInput is the DTO passed from the transport layer to the audit trail.
type AuditInput struct {
	Username  string
	Kind      domain.AuthEventKind
	Timestamp time.Time
	RemoteIP  string
	UserAgent string
}

// AuditService processes auth trail entries.
type AuditService interface {
	Process(ctx context.Context, in AuditInput) error
}

// AuditSink accepts entries for asynchronous processing.
type AuditSink interface {
	Enqueue(in AuditInput)
}

// AuditRepository persists auth trail entries.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
