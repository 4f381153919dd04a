package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	"github.com/SscSPs/compliance_transfer_app/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(createdAt time.Time) domain.TransferRequest {
	return domain.TransferRequest{
		RequestID:       uuid.NewString(),
		Title:           "t",
		Recipient:       "r@corp.com",
		Purpose:         "p",
		Status:          domain.StatusDraft,
		RiskLevel:       domain.RiskLow,
		CreatedByUserID: uuid.NewString(),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func auditFor(requestID string, action domain.AuditAction, at time.Time) domain.AuditEvent {
	return domain.AuditEvent{AuditID: uuid.NewString(), RequestID: &requestID, Action: action, Timestamp: at}
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	draft := newDraft(time.Now().UTC())

	err := repos.TxManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repos.TransferRepo.SaveTransfer(txCtx, draft))

		// Staged writes are visible inside the unit of work.
		got, err := repos.TransferRepo.FindTransferByID(txCtx, draft.RequestID)
		require.NoError(t, err)
		assert.Equal(t, draft.RequestID, got.RequestID)

		require.NoError(t, repos.AuditRepo.AppendAuditEvent(txCtx, auditFor(draft.RequestID, domain.AuditTransferCreated, draft.CreatedAt)))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = repos.TransferRepo.FindTransferByID(ctx, draft.RequestID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	events, err := repos.AuditRepo.ListAuditEventsByRequestID(ctx, draft.RequestID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUpdateTransferStatus_GuardsExpectedStatus(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	draft := newDraft(time.Now().UTC())
	require.NoError(t, repos.TransferRepo.SaveTransfer(ctx, draft))

	update := portsrepo.TransferStatusUpdate{
		RequestID:      draft.RequestID,
		ExpectedStatus: domain.StatusDraft,
		NewStatus:      domain.StatusInReview,
		RiskLevel:      domain.RiskMedium,
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repos.TransferRepo.UpdateTransferStatus(ctx, update))

	err := repos.TransferRepo.UpdateTransferStatus(ctx, update)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	got, err := repos.TransferRepo.FindTransferByID(ctx, draft.RequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInReview, got.Status)
	assert.Equal(t, domain.RiskMedium, got.RiskLevel)

	update.RequestID = uuid.NewString()
	assert.ErrorIs(t, repos.TransferRepo.UpdateTransferStatus(ctx, update), apperrors.ErrNotFound)
}

func TestUpdateTransferStatus_ConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	draft := newDraft(time.Now().UTC())
	require.NoError(t, repos.TransferRepo.SaveTransfer(ctx, draft))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repos.TxManager.WithinTransaction(ctx, func(txCtx context.Context) error {
				if err := repos.TransferRepo.UpdateTransferStatus(txCtx, portsrepo.TransferStatusUpdate{
					RequestID:      draft.RequestID,
					ExpectedStatus: domain.StatusDraft,
					NewStatus:      domain.StatusInReview,
					RiskLevel:      domain.RiskMedium,
					UpdatedAt:      time.Now().UTC(),
				}); err != nil {
					return err
				}
				return repos.AuditRepo.AppendAuditEvent(txCtx, auditFor(draft.RequestID, domain.AuditTransferSubmitted, time.Now().UTC()))
			})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded)

	events, err := repos.AuditRepo.ListAuditEventsByRequestID(ctx, draft.RequestID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestListTransfers_NewestFirstWithFilter(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newDraft(base)
	newer := newDraft(base.Add(time.Minute))
	sameAsNewer := newDraft(base.Add(time.Minute))
	for _, tr := range []domain.TransferRequest{older, newer, sameAsNewer} {
		require.NoError(t, repos.TransferRepo.SaveTransfer(ctx, tr))
	}
	require.NoError(t, repos.TransferRepo.UpdateTransferStatus(ctx, portsrepo.TransferStatusUpdate{
		RequestID:      older.RequestID,
		ExpectedStatus: domain.StatusDraft,
		NewStatus:      domain.StatusApproved,
		RiskLevel:      domain.RiskLow,
		UpdatedAt:      base.Add(time.Hour),
	}))

	all, err := repos.TransferRepo.ListTransfers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, sameAsNewer.RequestID, all[0].RequestID)
	assert.Equal(t, newer.RequestID, all[1].RequestID)
	assert.Equal(t, older.RequestID, all[2].RequestID)

	approved := domain.StatusApproved
	filtered, err := repos.TransferRepo.ListTransfers(ctx, &approved)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, older.RequestID, filtered[0].RequestID)

	rejected := domain.StatusRejected
	none, err := repos.TransferRepo.ListTransfers(ctx, &rejected)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	unknown := domain.TransferStatus("Pending")
	none, err = repos.TransferRepo.ListTransfers(ctx, &unknown)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAuditEvents_OrderedByTimestampStableOnTies(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	requestID := uuid.NewString()
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	late := auditFor(requestID, domain.AuditTransferApproved, at.Add(time.Second))
	first := auditFor(requestID, domain.AuditTransferCreated, at)
	second := auditFor(requestID, domain.AuditTransferSubmitted, at)
	other := auditFor(uuid.NewString(), domain.AuditTransferCreated, at)
	for _, e := range []domain.AuditEvent{late, first, second, other} {
		require.NoError(t, repos.AuditRepo.AppendAuditEvent(ctx, e))
	}

	events, err := repos.AuditRepo.ListAuditEventsByRequestID(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, first.AuditID, events[0].AuditID)
	assert.Equal(t, second.AuditID, events[1].AuditID)
	assert.Equal(t, late.AuditID, events[2].AuditID)
}

func TestUsers_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	user := domain.User{UserID: uuid.NewString(), Email: "Admin@corp.com", Roles: []domain.Role{domain.RoleAdmin}}

	require.NoError(t, repos.UserRepo.SaveUser(ctx, user))
	assert.ErrorIs(t, repos.UserRepo.SaveUser(ctx, user), apperrors.ErrConflict)

	got, err := repos.UserRepo.FindUserByEmail(ctx, "admin@corp.com")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)

	_, err = repos.UserRepo.FindUserByEmail(ctx, "missing@corp.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
