package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/core/risk"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/compliance_transfer_app/internal/core/services"

// transferService is the transfer workflow engine. It holds no state between calls:
// every operation re-reads the request from the store.
type transferService struct {
	BaseService
	transferRepo portsrepo.TransferRepositoryFacade
	auditRepo    portsrepo.AuditAppender
	txManager    portsrepo.TransactionManager
	classifier   risk.Classifier
	publisher    portssvc.AuditPublisher
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	now          func() time.Time
	newID        func() string
}

// TransferServiceOption configures optional collaborators of the transfer service.
type TransferServiceOption func(*transferService)

// WithRiskClassifier replaces the default pattern-based classifier.
func WithRiskClassifier(c risk.Classifier) TransferServiceOption {
	return func(s *transferService) {
		s.classifier = c
	}
}

// WithAuditPublisher streams committed audit events to p.
func WithAuditPublisher(p portssvc.AuditPublisher) TransferServiceOption {
	return func(s *transferService) {
		s.publisher = p
	}
}

// WithTransferMetrics records transitions and risk levels in m.
func WithTransferMetrics(m *metrics.Metrics) TransferServiceOption {
	return func(s *transferService) {
		s.metrics = m
	}
}

// WithClock overrides the time source. Timestamps are UTC at microsecond precision, matching TIMESTAMPTZ.
func WithClock(now func() time.Time) TransferServiceOption {
	return func(s *transferService) {
		s.now = func() time.Time { return now().UTC().Truncate(time.Microsecond) }
	}
}

// NewTransferService creates the transfer workflow engine.
func NewTransferService(
	transferRepo portsrepo.TransferRepositoryFacade,
	auditRepo portsrepo.AuditAppender,
	txManager portsrepo.TransactionManager,
	opts ...TransferServiceOption,
) portssvc.TransferSvcFacade {
	s := &transferService{
		transferRepo: transferRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		classifier:   risk.NewDefaultClassifier(),
		publisher:    noopAuditPublisher{},
		tracer:       otel.Tracer(tracerName),
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// CreateTransfer stores a new Draft request with Low risk and records TransferCreated.
func (s *transferService) CreateTransfer(ctx context.Context, input portssvc.CreateTransferInput, principal domain.Principal) (*domain.TransferRequest, error) {
	ctx, span := s.tracer.Start(ctx, "TransferService.CreateTransfer")
	defer span.End()
	logger := s.GetLogger(ctx)

	userID, err := principal.ResolveUserID()
	if err != nil {
		logger.Warn("Create transfer rejected: unresolvable identity")
		return nil, recordSpanError(span, err)
	}

	title := strings.TrimSpace(input.Title)
	recipient := strings.TrimSpace(input.Recipient)
	purpose := strings.TrimSpace(input.Purpose)
	if title == "" || recipient == "" || purpose == "" {
		logger.Warn("Create transfer rejected: missing required fields", slog.String("user_id", userID))
		return nil, recordSpanError(span, apperrors.NewValidationFailedError("Title, Recipient, and Purpose are required."))
	}

	now := s.now()
	transfer := domain.TransferRequest{
		RequestID:       s.newID(),
		Title:           title,
		Recipient:       recipient,
		Purpose:         purpose,
		Status:          domain.StatusDraft,
		RiskLevel:       domain.RiskLow,
		CreatedByUserID: userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	span.SetAttributes(attribute.String("transfer.request_id", transfer.RequestID))

	details := fmt.Sprintf("Title='%s', Recipient='%s'", title, recipient)
	event := s.newAuditEvent(ctx, transfer.RequestID, userID, domain.AuditTransferCreated, &details, now)

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.transferRepo.SaveTransfer(txCtx, transfer); err != nil {
			return err
		}
		return s.auditRepo.AppendAuditEvent(txCtx, event)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to persist new transfer request", slog.String("request_id", transfer.RequestID))
		return nil, recordSpanError(span, fmt.Errorf("failed to create transfer request: %w", err))
	}

	s.afterCommit(ctx, event, transfer.Status)
	logger.Info("Transfer request created", slog.String("request_id", transfer.RequestID), slog.String("user_id", userID))
	return &transfer, nil
}

// SubmitTransfer runs risk triage on a Draft request: Low risk is approved immediately,
// anything else goes to InReview.
func (s *transferService) SubmitTransfer(ctx context.Context, requestID string, principal domain.Principal) (*domain.TransferRequest, error) {
	ctx, span := s.tracer.Start(ctx, "TransferService.SubmitTransfer", trace.WithAttributes(attribute.String("transfer.request_id", requestID)))
	defer span.End()
	logger := s.GetLogger(ctx).With(slog.String("request_id", requestID))

	userID, err := principal.ResolveUserID()
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	transfer, err := s.findTransfer(ctx, requestID)
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	if !transfer.IsOwnedBy(userID) && !principal.HasAnyRole(domain.RoleAdmin) {
		logger.Warn("Submit rejected: caller is neither creator nor admin", slog.String("user_id", userID))
		return nil, recordSpanError(span, apperrors.NewForbiddenError("You can only submit your own transfer requests."))
	}

	level := s.classifier.Classify(transfer.Recipient, transfer.Purpose)
	newStatus, err := domain.NextStatus(transfer.Status, domain.ActionSubmit, level)
	if err != nil {
		logger.Warn("Submit rejected: invalid state", slog.String("status", string(transfer.Status)))
		return nil, recordSpanError(span, err)
	}
	span.SetAttributes(attribute.String("transfer.risk_level", string(level)))

	details := fmt.Sprintf("Risk='%s', Status='%s'", level, newStatus)
	updated, err := s.applyTransition(ctx, transfer, userID, domain.ActionSubmit, newStatus, level, &details)
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	s.metrics.IncRiskClassification(string(level))
	logger.Info("Transfer request submitted", slog.String("risk_level", string(level)), slog.String("status", string(newStatus)))
	return updated, nil
}

// ApproveTransfer approves a request that is InReview.
func (s *transferService) ApproveTransfer(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error) {
	return s.decide(ctx, domain.ActionApprove, requestID, principal, comments)
}

// RejectTransfer rejects a request that is InReview.
func (s *transferService) RejectTransfer(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error) {
	return s.decide(ctx, domain.ActionReject, requestID, principal, comments)
}

func (s *transferService) decide(ctx context.Context, action domain.TransferAction, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error) {
	ctx, span := s.tracer.Start(ctx, "TransferService.Decide", trace.WithAttributes(
		attribute.String("transfer.request_id", requestID),
		attribute.String("transfer.action", string(action)),
	))
	defer span.End()
	logger := s.GetLogger(ctx).With(slog.String("request_id", requestID), slog.String("action", string(action)))

	if err := s.RequireAnyRole(ctx, principal, "Approver/ComplianceOfficer role required", domain.ReviewerRoles...); err != nil {
		return nil, recordSpanError(span, err)
	}

	userID, err := principal.ResolveUserID()
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	transfer, err := s.findTransfer(ctx, requestID)
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	newStatus, err := domain.NextStatus(transfer.Status, action, transfer.RiskLevel)
	if err != nil {
		logger.Warn("Decision rejected: invalid state", slog.String("status", string(transfer.Status)))
		return nil, recordSpanError(span, err)
	}

	updated, err := s.applyTransition(ctx, transfer, userID, action, newStatus, transfer.RiskLevel, commentDetails(comments))
	if err != nil {
		return nil, recordSpanError(span, err)
	}

	logger.Info("Transfer request decided", slog.String("status", string(newStatus)), slog.String("user_id", userID))
	return updated, nil
}

// ListTransfers returns a snapshot of requests, newest first.
func (s *transferService) ListTransfers(ctx context.Context, status *domain.TransferStatus, principal domain.Principal) ([]domain.TransferRequest, error) {
	ctx, span := s.tracer.Start(ctx, "TransferService.ListTransfers")
	defer span.End()

	if _, err := principal.ResolveUserID(); err != nil {
		return nil, recordSpanError(span, err)
	}

	transfers, err := s.transferRepo.ListTransfers(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transfer requests")
		return nil, recordSpanError(span, fmt.Errorf("failed to list transfer requests: %w", err))
	}
	if transfers == nil {
		return []domain.TransferRequest{}, nil // Return empty slice, not nil
	}

	s.LogDebug(ctx, "Transfer requests listed", slog.Int("count", len(transfers)))
	return transfers, nil
}

// applyTransition writes the guarded status change and its audit event in one unit of work,
// then returns the freshly read record.
func (s *transferService) applyTransition(
	ctx context.Context,
	transfer *domain.TransferRequest,
	actorID string,
	action domain.TransferAction,
	newStatus domain.TransferStatus,
	level domain.RiskLevel,
	details *string,
) (*domain.TransferRequest, error) {
	now := s.now()
	update := portsrepo.TransferStatusUpdate{
		RequestID:      transfer.RequestID,
		ExpectedStatus: transfer.Status,
		NewStatus:      newStatus,
		RiskLevel:      level,
		UpdatedAt:      now,
	}
	event := s.newAuditEvent(ctx, transfer.RequestID, actorID, domain.AuditActionFor(action), details, now)

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.transferRepo.UpdateTransferStatus(txCtx, update); err != nil {
			return err
		}
		return s.auditRepo.AppendAuditEvent(txCtx, event)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			s.GetLogger(ctx).Warn("Transfer status changed concurrently", slog.String("request_id", transfer.RequestID))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to apply transfer transition", slog.String("request_id", transfer.RequestID), slog.String("action", string(action)))
		return nil, fmt.Errorf("failed to %s transfer request: %w", action, err)
	}

	s.afterCommit(ctx, event, newStatus)

	updated, err := s.transferRepo.FindTransferByID(ctx, transfer.RequestID)
	if err != nil {
		s.LogError(ctx, err, "Transfer request missing after update", slog.String("request_id", transfer.RequestID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "unexpected missing request", err)
	}
	return updated, nil
}

func (s *transferService) findTransfer(ctx context.Context, requestID string) (*domain.TransferRequest, error) {
	transfer, err := s.transferRepo.FindTransferByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.GetLogger(ctx).Warn("Transfer request not found", slog.String("request_id", requestID))
			return nil, apperrors.NewNotFoundError("Transfer request not found.")
		}
		s.LogError(ctx, err, "Failed to load transfer request", slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to load transfer request: %w", err)
	}
	return transfer, nil
}

func (s *transferService) newAuditEvent(ctx context.Context, requestID, actorID string, action domain.AuditAction, details *string, at time.Time) domain.AuditEvent {
	return domain.AuditEvent{
		AuditID:       s.newID(),
		RequestID:     &requestID,
		ActorUserID:   &actorID,
		Action:        action,
		Details:       details,
		CorrelationID: middleware.GetCorrelationIDFromCtx(ctx),
		Timestamp:     at,
	}
}

// afterCommit runs the side effects that must not influence the outcome of an operation.
func (s *transferService) afterCommit(ctx context.Context, event domain.AuditEvent, status domain.TransferStatus) {
	s.metrics.IncTransition(string(event.Action), string(status))
	if err := s.publisher.PublishAuditEvent(ctx, event); err != nil {
		s.metrics.IncAuditPublishFailure()
		s.LogError(ctx, err, "Failed to publish audit event", slog.String("audit_id", event.AuditID))
	}
}

// commentDetails returns nil for absent or blank comments so the audit event omits them.
func commentDetails(comments *string) *string {
	if comments == nil || strings.TrimSpace(*comments) == "" {
		return nil
	}
	details := fmt.Sprintf("Comments='%s'", *comments)
	return &details
}

func recordSpanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type noopAuditPublisher struct{}

func (noopAuditPublisher) PublishAuditEvent(context.Context, domain.AuditEvent) error { return nil }
