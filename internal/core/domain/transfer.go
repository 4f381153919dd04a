package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
)

// TransferStatus is the lifecycle state of a transfer request.
type TransferStatus string

const (
	StatusDraft    TransferStatus = "Draft"
	StatusInReview TransferStatus = "InReview"
	StatusApproved TransferStatus = "Approved"
	StatusRejected TransferStatus = "Rejected"
	StatusSent     TransferStatus = "Sent" // Reserved for the downstream delivery step; nothing produces it yet.
)

// AllTransferStatuses lists every status value in lifecycle order.
var AllTransferStatuses = []TransferStatus{StatusDraft, StatusInReview, StatusApproved, StatusRejected, StatusSent}

// IsValid reports whether s is one of the enumerated statuses.
func (s TransferStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusApproved, StatusRejected, StatusSent:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s TransferStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusSent:
		return true
	case StatusDraft, StatusInReview:
		return false
	default:
		return false
	}
}

// ParseTransferStatus converts raw input (e.g. a query parameter) into a TransferStatus.
func ParseTransferStatus(raw string) (TransferStatus, error) {
	s := TransferStatus(raw)
	if !s.IsValid() {
		return "", apperrors.NewValidationFailedError(fmt.Sprintf("unknown transfer status %q", raw))
	}
	return s, nil
}

// RiskLevel is the coarse classification that decides whether human review is needed.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// IsValid reports whether r is one of the enumerated risk levels.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// TransferRequest is a proposal to send data or material to a recipient for a stated purpose.
// It is owned by the transfer store; services re-fetch it on every operation.
type TransferRequest struct {
	RequestID       string         `json:"requestId"`
	Title           string         `json:"title"`
	Recipient       string         `json:"recipient"`
	Purpose         string         `json:"purpose"`
	Status          TransferStatus `json:"status"`
	RiskLevel       RiskLevel      `json:"riskLevel"`
	CreatedByUserID string         `json:"createdByUserId"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// IsOwnedBy reports whether userID created the request.
func (t *TransferRequest) IsOwnedBy(userID string) bool {
	return t.CreatedByUserID == userID
}
