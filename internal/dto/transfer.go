package dto

import (
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// CreateTransferRequest defines the data needed to create a transfer request.
// Blank fields are rejected by the service with a single validation message.
type CreateTransferRequest struct {
	Title     string `json:"title" example:"Q3 data"`
	Recipient string `json:"recipient" example:"partner@external.com"`
	Purpose   string `json:"purpose" example:"transfer records"`
}

// DecisionRequest carries the optional reviewer comments for approve and reject.
type DecisionRequest struct {
	Comments *string `json:"comments,omitempty" binding:"omitempty,max=2000"`
}

// ListTransfersParams defines query parameters for listing transfer requests.
type ListTransfersParams struct {
	Status string `form:"status"`
}

// TransferResponse defines the data returned for a transfer request.
type TransferResponse struct {
	RequestID string    `json:"requestId"`
	Title     string    `json:"title"`
	Recipient string    `json:"recipient"`
	Purpose   string    `json:"purpose"`
	Status    string    `json:"status" enums:"Draft,InReview,Approved,Rejected,Sent"`
	RiskLevel string    `json:"riskLevel" enums:"Low,Medium,High"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToTransferResponse converts a domain.TransferRequest to a TransferResponse DTO.
func ToTransferResponse(t *domain.TransferRequest) TransferResponse {
	return TransferResponse{
		RequestID: t.RequestID,
		Title:     t.Title,
		Recipient: t.Recipient,
		Purpose:   t.Purpose,
		Status:    string(t.Status),
		RiskLevel: string(t.RiskLevel),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTransferResponseList converts a slice of domain.TransferRequest to a JSON array payload.
func ToTransferResponseList(transfers []domain.TransferRequest) []TransferResponse {
	out := make([]TransferResponse, len(transfers))
	for i := range transfers {
		out[i] = ToTransferResponse(&transfers[i])
	}
	return out
}
