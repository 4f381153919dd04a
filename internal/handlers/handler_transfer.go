package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/dto"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles HTTP requests related to transfer requests.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
	auditService    portssvc.AuditSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade, as portssvc.AuditSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
		auditService:    as,
	}
}

// RegisterTransferRoutes registers routes related to transfer requests.
// rg must already carry AuthMiddleware.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := newTransferHandler(transferService, auditService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("", h.listTransfers)
		transfers.POST("/:id/submit", h.submitTransfer)
		transfers.POST("/:id/approve", h.approveTransfer)
		transfers.POST("/:id/reject", h.rejectTransfer)
		transfers.GET("/:id/audit", h.listAuditEvents)
	}
}

// createTransfer godoc
// @Summary Create a transfer request
// @Description Creates a Draft transfer request owned by the caller. Risk starts at Low.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Missing title, recipient or purpose"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()), slog.Any("fields", invalidFields(err)))
		respondMessage(c, http.StatusBadRequest, "Invalid request format.")
		return
	}

	created, err := h.transferService.CreateTransfer(c.Request.Context(), portssvc.CreateTransferInput{
		Title:     req.Title,
		Recipient: req.Recipient,
		Purpose:   req.Purpose,
	}, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransferResponse(created))
}

// listTransfers godoc
// @Summary List transfer requests
// @Description Lists all transfer requests, newest first, optionally filtered by status.
// @Description An unrecognised status matches nothing and yields an empty list.
// @Tags transfers
// @Produce  json
// @Param   status query string false "Status filter" Enums(Draft, InReview, Approved, Rejected, Sent)
// @Success 200 {array} dto.TransferResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransfers", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format.")
		return
	}

	var status *domain.TransferStatus
	if params.Status != "" {
		s := domain.TransferStatus(params.Status)
		status = &s
	}

	transfers, err := h.transferService.ListTransfers(c.Request.Context(), status, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponseList(transfers))
}

// submitTransfer godoc
// @Summary Submit a transfer request
// @Description Classifies a Draft request. Low risk is approved immediately, Medium and High go to review.
// @Description Only the creator or an Admin may submit.
// @Tags transfers
// @Produce  json
// @Param   id path string true "Transfer request ID" format(uuid)
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid id or request is not a Draft"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the creator"
// @Failure 404 {object} dto.ErrorResponse "Transfer request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers/{id}/submit [post]
func (h *transferHandler) submitTransfer(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	updated, err := h.transferService.SubmitTransfer(c.Request.Context(), requestID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(updated))
}

// approveTransfer godoc
// @Summary Approve a transfer request
// @Description Approves a request that is InReview. Requires Approver, ComplianceOfficer or Admin.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   id path string true "Transfer request ID" format(uuid)
// @Param   decision body dto.DecisionRequest false "Reviewer comments"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid id or request is not InReview"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Reviewer role required"
// @Failure 404 {object} dto.ErrorResponse "Transfer request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers/{id}/approve [post]
func (h *transferHandler) approveTransfer(c *gin.Context) {
	h.decide(c, h.transferService.ApproveTransfer)
}

// rejectTransfer godoc
// @Summary Reject a transfer request
// @Description Rejects a request that is InReview. Requires Approver, ComplianceOfficer or Admin.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   id path string true "Transfer request ID" format(uuid)
// @Param   decision body dto.DecisionRequest false "Reviewer comments"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid id or request is not InReview"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Reviewer role required"
// @Failure 404 {object} dto.ErrorResponse "Transfer request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers/{id}/reject [post]
func (h *transferHandler) rejectTransfer(c *gin.Context) {
	h.decide(c, h.transferService.RejectTransfer)
}

type decisionFunc func(ctx context.Context, requestID string, principal domain.Principal, comments *string) (*domain.TransferRequest, error)

func (h *transferHandler) decide(c *gin.Context, decision decisionFunc) {
	logger := middleware.GetLoggerFromContext(c)
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	// The body is optional; an empty one means no comments.
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for decision", slog.String("error", err.Error()), slog.Any("fields", invalidFields(err)))
		respondMessage(c, http.StatusBadRequest, "Invalid request format.")
		return
	}

	updated, err := decision(c.Request.Context(), requestID, principal, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(updated))
}

// listAuditEvents godoc
// @Summary Get the audit trail of a transfer request
// @Description Returns every recorded event for the request in chronological order.
// @Description An id with no recorded events yields an empty list.
// @Tags audit
// @Produce  json
// @Param   id path string true "Transfer request ID" format(uuid)
// @Success 200 {array} dto.AuditEventResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers/{id}/audit [get]
func (h *transferHandler) listAuditEvents(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	events, err := h.auditService.ListAuditEvents(c.Request.Context(), requestID, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditEventResponseList(events))
}
