package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditReader
	tracer    trace.Tracer
}

// NewAuditService creates the read side of the audit trail.
func NewAuditService(auditRepo portsrepo.AuditReader) portssvc.AuditSvcFacade {
	return &auditService{
		auditRepo: auditRepo,
		tracer:    otel.Tracer(tracerName),
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// ListAuditEvents returns the recorded events of a request. A request id with no
// events, known or not, yields an empty trail.
func (s *auditService) ListAuditEvents(ctx context.Context, requestID string, principal domain.Principal) ([]domain.AuditEvent, error) {
	ctx, span := s.tracer.Start(ctx, "AuditService.ListAuditEvents", trace.WithAttributes(attribute.String("transfer.request_id", requestID)))
	defer span.End()

	if _, err := principal.ResolveUserID(); err != nil {
		return nil, recordSpanError(span, err)
	}

	events, err := s.auditRepo.ListAuditEventsByRequestID(ctx, requestID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit events", slog.String("request_id", requestID))
		return nil, recordSpanError(span, fmt.Errorf("failed to list audit events: %w", err))
	}
	if events == nil {
		return []domain.AuditEvent{}, nil
	}
	return events, nil
}
