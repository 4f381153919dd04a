package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
)

// TransferRepository keeps transfer requests in a Store.
type TransferRepository struct {
	store *Store
}

func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

var _ portsrepo.TransferRepositoryFacade = (*TransferRepository)(nil)

func (r *TransferRepository) SaveTransfer(ctx context.Context, transfer domain.TransferRequest) error {
	return r.store.write(ctx, func(u *unitOfWork) error {
		if _, exists := r.store.lookupTransfer(ctx, transfer.RequestID); exists {
			return apperrors.NewConflictError(fmt.Sprintf("transfer request %s already exists", transfer.RequestID))
		}
		u.transfers[transfer.RequestID] = transfer
		return nil
	})
}

func (r *TransferRepository) FindTransferByID(ctx context.Context, requestID string) (*domain.TransferRequest, error) {
	t, ok := r.store.lookupTransfer(ctx, requestID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *TransferRepository) ListTransfers(ctx context.Context, status *domain.TransferStatus) ([]domain.TransferRequest, error) {
	r.store.mu.RLock()
	rows := make([]transferRow, 0, len(r.store.transfers))
	for _, row := range r.store.transfers {
		if status == nil || row.transfer.Status == *status {
			rows = append(rows, row)
		}
	}
	r.store.mu.RUnlock()

	// Newest first; later inserts win ties.
	slices.SortFunc(rows, func(a, b transferRow) int {
		if c := b.transfer.CreatedAt.Compare(a.transfer.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]domain.TransferRequest, len(rows))
	for i, row := range rows {
		out[i] = row.transfer
	}
	return out, nil
}

func (r *TransferRepository) UpdateTransferStatus(ctx context.Context, update portsrepo.TransferStatusUpdate) error {
	return r.store.write(ctx, func(u *unitOfWork) error {
		current, ok := r.store.lookupTransfer(ctx, update.RequestID)
		if !ok {
			return apperrors.ErrNotFound
		}
		if current.Status != update.ExpectedStatus {
			return apperrors.NewInvalidStateError("transfer status changed concurrently")
		}
		current.Status = update.NewStatus
		current.RiskLevel = update.RiskLevel
		current.UpdatedAt = update.UpdatedAt
		u.transfers[update.RequestID] = current
		return nil
	})
}
