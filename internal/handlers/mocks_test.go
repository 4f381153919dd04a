package handlers_test

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) CreateTransfer(ctx context.Context, input portssvc.CreateTransferInput, principal domain.Principal) (*domain.TransferRequest, error) {
	args := m.Called(ctx, input, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferRequest), args.Error(1)
}

func (m *MockTransferService) SubmitTransfer(ctx context.Context, requestID string, principal domain.Principal) (*domain.TransferRequest, error) {
	args := m.Called(ctx, requestID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferRequest), args.Error(1)
}

func (m *MockTransferService) ApproveTransfer(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error) {
	args := m.Called(ctx, requestID, principal, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferRequest), args.Error(1)
}

func (m *MockTransferService) RejectTransfer(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error) {
	args := m.Called(ctx, requestID, principal, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferRequest), args.Error(1)
}

func (m *MockTransferService) ListTransfers(ctx context.Context, status *domain.TransferStatus, principal domain.Principal) ([]domain.TransferRequest, error) {
	args := m.Called(ctx, status, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferRequest), args.Error(1)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) ListAuditEvents(ctx context.Context, requestID string, principal domain.Principal) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, requestID, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*portssvc.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.LoginResult), args.Error(1)
}

func (m *MockAuthService) EnsureBootstrapUser(ctx context.Context, email, password string, roles []domain.Role) error {
	args := m.Called(ctx, email, password, roles)
	return args.Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)
