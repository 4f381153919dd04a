package repositories

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// AuditAppender writes audit events. There is deliberately no update or delete.
type AuditAppender interface {
	AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditReader reads the audit trail.
type AuditReader interface {
	// ListAuditEventsByRequestID returns the events for a request ordered by timestamp ascending.
	ListAuditEventsByRequestID(ctx context.Context, requestID string) ([]domain.AuditEvent, error)
}

// AuditRepositoryFacade combines all audit-related repository interfaces
type AuditRepositoryFacade interface {
	AuditAppender
	AuditReader
}
