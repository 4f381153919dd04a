package dto

import (
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// AuditEventResponse is one entry of a request's audit trail.
type AuditEventResponse struct {
	AuditID       string    `json:"auditId"`
	RequestID     *string   `json:"requestId,omitempty"`
	ActorUserID   *string   `json:"actorUserId,omitempty"`
	Action        string    `json:"action"`
	Details       *string   `json:"details,omitempty"`
	CorrelationID *string   `json:"correlationId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ToAuditEventResponseList converts audit events to their response form, keeping order.
func ToAuditEventResponseList(events []domain.AuditEvent) []AuditEventResponse {
	out := make([]AuditEventResponse, len(events))
	for i, e := range events {
		out[i] = AuditEventResponse{
			AuditID:       e.AuditID,
			RequestID:     e.RequestID,
			ActorUserID:   e.ActorUserID,
			Action:        string(e.Action),
			Details:       e.Details,
			CorrelationID: e.CorrelationID,
			Timestamp:     e.Timestamp,
		}
	}
	return out
}
