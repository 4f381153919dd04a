package domain

import (
	"fmt"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
)

// TransferAction is a state-changing operation on a transfer request.
type TransferAction string

const (
	ActionSubmit  TransferAction = "submit"
	ActionApprove TransferAction = "approve"
	ActionReject  TransferAction = "reject"
)

// NextStatus applies the transfer state machine:
//
//	Draft    --submit(Low)-->   Approved
//	Draft    --submit(other)--> InReview
//	InReview --approve-->       Approved
//	InReview --reject-->        Rejected
//
// risk is only consulted for ActionSubmit.
func NextStatus(current TransferStatus, action TransferAction, risk RiskLevel) (TransferStatus, error) {
	switch action {
	case ActionSubmit:
		if current != StatusDraft {
			return "", apperrors.NewInvalidStateError("Only Draft requests can be submitted")
		}
		switch risk {
		case RiskLow:
			return StatusApproved, nil
		case RiskMedium, RiskHigh:
			return StatusInReview, nil
		default:
			return "", fmt.Errorf("%w: unknown risk level %q", apperrors.ErrInternal, risk)
		}
	case ActionApprove:
		if current != StatusInReview {
			return "", apperrors.NewInvalidStateError("Only InReview requests can be approved")
		}
		return StatusApproved, nil
	case ActionReject:
		if current != StatusInReview {
			return "", apperrors.NewInvalidStateError("Only InReview requests can be rejected")
		}
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown transfer action %q", apperrors.ErrInternal, action)
	}
}
