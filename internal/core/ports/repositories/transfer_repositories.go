package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// TransferStatusUpdate describes a guarded status change.
// The store applies it only while the row is still in ExpectedStatus.
type TransferStatusUpdate struct {
	RequestID      string
	ExpectedStatus domain.TransferStatus
	NewStatus      domain.TransferStatus
	RiskLevel      domain.RiskLevel
	UpdatedAt      time.Time
}

// TransferReader defines read operations for transfer requests
type TransferReader interface {
	// FindTransferByID retrieves a transfer request. Returns apperrors.ErrNotFound when absent.
	FindTransferByID(ctx context.Context, requestID string) (*domain.TransferRequest, error)

	// ListTransfers returns all requests, newest first, optionally restricted to one status.
	ListTransfers(ctx context.Context, status *domain.TransferStatus) ([]domain.TransferRequest, error)
}

// TransferWriter defines write operations for transfer requests
type TransferWriter interface {
	// SaveTransfer persists a new transfer request.
	SaveTransfer(ctx context.Context, transfer domain.TransferRequest) error

	// UpdateTransferStatus applies update. Returns apperrors.ErrInvalidState when the
	// current status no longer matches update.ExpectedStatus, apperrors.ErrNotFound when the row is gone.
	UpdateTransferStatus(ctx context.Context, update TransferStatusUpdate) error
}

// TransferRepositoryFacade combines all transfer-related repository interfaces
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}
