package services

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// CreateTransferInput carries the caller-supplied fields of a new transfer request.
type CreateTransferInput struct {
	Title     string
	Recipient string
	Purpose   string
}

// TransferLifecycleSvc moves transfer requests through the approval workflow.
// Every successful call writes exactly one audit event together with the state change.
type TransferLifecycleSvc interface {
	// CreateTransfer stores a new Draft request owned by the principal.
	CreateTransfer(ctx context.Context, input CreateTransferInput, principal domain.Principal) (*domain.TransferRequest, error)

	// SubmitTransfer classifies a Draft request and either auto-approves it or sends it to review.
	// Only the creator or an Admin may submit.
	SubmitTransfer(ctx context.Context, requestID string, principal domain.Principal) (*domain.TransferRequest, error)

	// ApproveTransfer approves a request in review. comments may be nil.
	ApproveTransfer(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error)

	// RejectTransfer rejects a request in review. comments may be nil.
	RejectTransfer(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error)
}

// TransferReaderSvc defines read operations for transfer requests
type TransferReaderSvc interface {
	// ListTransfers returns a snapshot of all requests, newest first, optionally filtered by status.
	ListTransfers(ctx context.Context, status *domain.TransferStatus, principal domain.Principal) ([]domain.TransferRequest, error)
}

// TransferSvcFacade combines all transfer-related service interfaces
type TransferSvcFacade interface {
	TransferLifecycleSvc
	TransferReaderSvc
}
