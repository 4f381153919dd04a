package services_test

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockTransferRepository is a mock type for the TransferRepositoryFacade interface
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, requestID string) (*domain.TransferRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) ListTransfers(ctx context.Context, status *domain.TransferStatus) ([]domain.TransferRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) SaveTransfer(ctx context.Context, transfer domain.TransferRequest) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) UpdateTransferStatus(ctx context.Context, update portsrepo.TransferStatusUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

// MockAuditRepository is a mock type for the AuditRepositoryFacade interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditEventsByRequestID(ctx context.Context, requestID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockAuditPublisher is a mock type for the AuditPublisher interface
type MockAuditPublisher struct {
	mock.Mock
}

func (m *MockAuditPublisher) PublishAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// passthroughTx runs the unit of work directly; rollback is the repositories' concern.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
