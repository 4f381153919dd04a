package memory

import (
	"context"
	"slices"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
)

// AuditRepository is an append-only audit log kept in a Store.
type AuditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

var _ portsrepo.AuditRepositoryFacade = (*AuditRepository)(nil)

func (r *AuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	return r.store.write(ctx, func(u *unitOfWork) error {
		u.audit = append(u.audit, event)
		return nil
	})
}

func (r *AuditRepository) ListAuditEventsByRequestID(ctx context.Context, requestID string) ([]domain.AuditEvent, error) {
	r.store.mu.RLock()
	var events []domain.AuditEvent
	for _, row := range r.store.audit {
		if row.event.RequestID != nil && *row.event.RequestID == requestID {
			events = append(events, row.event)
		}
	}
	r.store.mu.RUnlock()

	// Rows are already in insertion order, so a stable sort keeps it on equal timestamps.
	slices.SortStableFunc(events, func(a, b domain.AuditEvent) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return events, nil
}
