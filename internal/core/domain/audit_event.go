package domain

import "time"

// AuditAction labels what happened in an audit event.
type AuditAction string

const (
	AuditTransferCreated   AuditAction = "TransferCreated"
	AuditTransferSubmitted AuditAction = "TransferSubmitted"
	AuditTransferApproved  AuditAction = "TransferApproved"
	AuditTransferRejected  AuditAction = "TransferRejected"
)

// AuditActionFor returns the audit label recorded for a successful transition.
func AuditActionFor(action TransferAction) AuditAction {
	switch action {
	case ActionSubmit:
		return AuditTransferSubmitted
	case ActionApprove:
		return AuditTransferApproved
	case ActionReject:
		return AuditTransferRejected
	default:
		return AuditAction(action)
	}
}

// AuditEvent is an immutable fact about something that happened to a request.
// Optional fields are nil when absent so they are omitted rather than stored empty.
type AuditEvent struct {
	AuditID       string      `json:"auditId"`
	RequestID     *string     `json:"requestId,omitempty"`
	ActorUserID   *string     `json:"actorUserId,omitempty"`
	Action        AuditAction `json:"action"`
	Details       *string     `json:"details,omitempty"`
	CorrelationID *string     `json:"correlationId,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}
