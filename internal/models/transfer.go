package models

import "time"

// TransferRequest is the transfer_requests row.
type TransferRequest struct {
	RequestID       string    `db:"request_id"`
	Title           string    `db:"title"`
	Recipient       string    `db:"recipient"`
	Purpose         string    `db:"purpose"`
	Status          string    `db:"status"`
	RiskLevel       string    `db:"risk_level"`
	CreatedByUserID string    `db:"created_by_user_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// AuditEvent is the audit_events row. Nullable columns map to pointers.
type AuditEvent struct {
	AuditID       string    `db:"audit_id"`
	RequestID     *string   `db:"request_id"`
	ActorUserID   *string   `db:"actor_user_id"`
	Action        string    `db:"action"`
	Details       *string   `db:"details"`
	CorrelationID *string   `db:"correlation_id"`
	OccurredAt    time.Time `db:"occurred_at"`
}
