package mapping

import (
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	"github.com/SscSPs/compliance_transfer_app/internal/models"
)

// ToModelTransfer converts a domain TransferRequest to a model TransferRequest
func ToModelTransfer(d domain.TransferRequest) models.TransferRequest {
	return models.TransferRequest{
		RequestID:       d.RequestID,
		Title:           d.Title,
		Recipient:       d.Recipient,
		Purpose:         d.Purpose,
		Status:          string(d.Status),
		RiskLevel:       string(d.RiskLevel),
		CreatedByUserID: d.CreatedByUserID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDomainTransfer converts a model TransferRequest to a domain TransferRequest.
// pgx returns timestamptz in the session zone; the domain works in UTC.
func ToDomainTransfer(m models.TransferRequest) domain.TransferRequest {
	return domain.TransferRequest{
		RequestID:       m.RequestID,
		Title:           m.Title,
		Recipient:       m.Recipient,
		Purpose:         m.Purpose,
		Status:          domain.TransferStatus(m.Status),
		RiskLevel:       domain.RiskLevel(m.RiskLevel),
		CreatedByUserID: m.CreatedByUserID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

// ToDomainTransferSlice converts a slice of model TransferRequests to a slice of domain TransferRequests
func ToDomainTransferSlice(ms []models.TransferRequest) []domain.TransferRequest {
	ds := make([]domain.TransferRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransfer(m)
	}
	return ds
}

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	return models.AuditEvent{
		AuditID:       d.AuditID,
		RequestID:     d.RequestID,
		ActorUserID:   d.ActorUserID,
		Action:        string(d.Action),
		Details:       d.Details,
		CorrelationID: d.CorrelationID,
		OccurredAt:    d.Timestamp,
	}
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent
func ToDomainAuditEvent(m models.AuditEvent) domain.AuditEvent {
	return domain.AuditEvent{
		AuditID:       m.AuditID,
		RequestID:     m.RequestID,
		ActorUserID:   m.ActorUserID,
		Action:        domain.AuditAction(m.Action),
		Details:       m.Details,
		CorrelationID: m.CorrelationID,
		Timestamp:     m.OccurredAt.UTC(),
	}
}

// ToDomainAuditEventSlice converts a slice of model AuditEvents to a slice of domain AuditEvents
func ToDomainAuditEventSlice(ms []models.AuditEvent) []domain.AuditEvent {
	ds := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditEvent(m)
	}
	return ds
}
