package services

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// AuditSvcFacade exposes the audit trail of transfer requests.
type AuditSvcFacade interface {
	// ListAuditEvents returns the events of a request in ascending timestamp order.
	ListAuditEvents(ctx context.Context, requestID string, principal domain.Principal) ([]domain.AuditEvent, error)
}

// AuditPublisher streams committed audit events to downstream consumers.
type AuditPublisher interface {
	PublishAuditEvent(ctx context.Context, event domain.AuditEvent) error
}
