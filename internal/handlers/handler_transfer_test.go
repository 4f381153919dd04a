package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/dto"
	"github.com/SscSPs/compliance_transfer_app/internal/handlers"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/SscSPs/compliance_transfer_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransferHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockTransferService *MockTransferService
	mockAuditService    *MockAuditService
	jwtCfg              utils.JWTConfig
	userID              string
}

func (suite *TransferHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtCfg = utils.JWTConfig{
		Secret:   "test-secret-key-that-is-long-enough",
		Issuer:   "ct-test",
		Audience: "ct-test-api",
		Expiry:   time.Hour,
	}
	suite.userID = uuid.NewString()
	suite.mockTransferService = new(MockTransferService)
	suite.mockAuditService = new(MockAuditService)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtCfg))
	handlers.RegisterTransferRoutes(v1, suite.mockTransferService, suite.mockAuditService)
}

func (suite *TransferHandlerTestSuite) generateTestToken(roles ...string) string {
	token, _, err := utils.GenerateJWT(suite.jwtCfg, suite.userID, "user@corp.com", roles, time.Now())
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *TransferHandlerTestSuite) do(method, url string, body []byte, roles ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(roles...))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransferHandlerTestSuite) decodeMessage(w *httptest.ResponseRecorder) string {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func (suite *TransferHandlerTestSuite) principalFor(roles ...domain.Role) interface{} {
	return mock.MatchedBy(func(p domain.Principal) bool {
		if p.UserID != suite.userID || len(p.Roles) != len(roles) {
			return false
		}
		for i := range roles {
			if p.Roles[i] != roles[i] {
				return false
			}
		}
		return true
	})
}

func sampleTransfer(status domain.TransferStatus, risk domain.RiskLevel) *domain.TransferRequest {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return &domain.TransferRequest{
		RequestID:       uuid.NewString(),
		Title:           "Q3 data",
		Recipient:       "partner@external.com",
		Purpose:         "transfer records",
		Status:          status,
		RiskLevel:       risk,
		CreatedByUserID: uuid.NewString(),
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_Success() {
	created := sampleTransfer(domain.StatusDraft, domain.RiskLow)
	input := portssvc.CreateTransferInput{Title: "Q3 data", Recipient: "partner@external.com", Purpose: "transfer records"}
	suite.mockTransferService.On("CreateTransfer", mock.Anything, input, suite.principalFor(domain.RoleRequester)).
		Return(created, nil).Once()

	body, _ := json.Marshal(dto.CreateTransferRequest{Title: input.Title, Recipient: input.Recipient, Purpose: input.Purpose})
	w := suite.do(http.MethodPost, "/api/v1/transfers", body, "Requester")

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.RequestID, resp.RequestID)
	suite.Equal("Draft", resp.Status)
	suite.Equal("Low", resp.RiskLevel)
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_MalformedBody() {
	w := suite.do(http.MethodPost, "/api/v1/transfers", []byte("{not json"), "Requester")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid request format.", suite.decodeMessage(w))
	suite.mockTransferService.AssertNotCalled(suite.T(), "CreateTransfer")
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_ValidationErrorFromService() {
	suite.mockTransferService.On("CreateTransfer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationFailedError("Title, Recipient, and Purpose are required.")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", []byte(`{"title":"  "}`), "Requester")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Title, Recipient, and Purpose are required.", suite.decodeMessage(w))
}

func (suite *TransferHandlerTestSuite) TestCreateTransfer_NoToken() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransferService.AssertNotCalled(suite.T(), "CreateTransfer")
}

func (suite *TransferHandlerTestSuite) TestListTransfers_WithStatusFilter() {
	items := []domain.TransferRequest{*sampleTransfer(domain.StatusInReview, domain.RiskHigh)}
	suite.mockTransferService.On("ListTransfers", mock.Anything,
		mock.MatchedBy(func(s *domain.TransferStatus) bool { return s != nil && *s == domain.StatusInReview }),
		mock.Anything,
	).Return(items, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transfers?status=InReview", nil, "Approver")

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("High", resp[0].RiskLevel)
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestListTransfers_EmptyIsArray() {
	suite.mockTransferService.On("ListTransfers", mock.Anything, (*domain.TransferStatus)(nil), mock.Anything).
		Return([]domain.TransferRequest{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transfers", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *TransferHandlerTestSuite) TestListTransfers_UnknownStatusIsEmpty() {
	suite.mockTransferService.On("ListTransfers", mock.Anything,
		mock.MatchedBy(func(s *domain.TransferStatus) bool { return s != nil && *s == "Pending" }),
		mock.Anything,
	).Return([]domain.TransferRequest{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transfers?status=Pending", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestSubmitTransfer_Success() {
	updated := sampleTransfer(domain.StatusInReview, domain.RiskMedium)
	suite.mockTransferService.On("SubmitTransfer", mock.Anything, updated.RequestID, suite.principalFor(domain.RoleRequester)).
		Return(updated, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers/"+updated.RequestID+"/submit", nil, "Requester")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("InReview", resp.Status)
	suite.Equal("Medium", resp.RiskLevel)
}

func (suite *TransferHandlerTestSuite) TestSubmitTransfer_InvalidID() {
	w := suite.do(http.MethodPost, "/api/v1/transfers/not-a-uuid/submit", nil, "Requester")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid transfer request id.", suite.decodeMessage(w))
	suite.mockTransferService.AssertNotCalled(suite.T(), "SubmitTransfer")
}

func (suite *TransferHandlerTestSuite) TestSubmitTransfer_ErrorMapping() {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"forbidden", apperrors.NewForbiddenError("You can only submit your own transfer requests."), http.StatusForbidden, "You can only submit your own transfer requests."},
		{"not found", apperrors.NewNotFoundError("Transfer request not found."), http.StatusNotFound, "Transfer request not found."},
		{"invalid state", apperrors.NewInvalidStateError("Only Draft requests can be submitted."), http.StatusBadRequest, "Only Draft requests can be submitted."},
		{"storage failure", apperrors.NewAppError(http.StatusInternalServerError, "db down", errors.New("conn refused")), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			id := uuid.NewString()
			suite.mockTransferService.On("SubmitTransfer", mock.Anything, id, mock.Anything).Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/transfers/"+id+"/submit", nil, "Requester")

			suite.Equal(tc.code, w.Code)
			suite.Equal(tc.message, suite.decodeMessage(w))
		})
	}
}

func (suite *TransferHandlerTestSuite) TestApproveTransfer_WithoutBody() {
	updated := sampleTransfer(domain.StatusApproved, domain.RiskHigh)
	suite.mockTransferService.On("ApproveTransfer", mock.Anything, updated.RequestID,
		suite.principalFor(domain.RoleComplianceOfficer), (*string)(nil)).Return(updated, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers/"+updated.RequestID+"/approve", nil, "ComplianceOfficer")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestApproveTransfer_WithComments() {
	updated := sampleTransfer(domain.StatusApproved, domain.RiskMedium)
	suite.mockTransferService.On("ApproveTransfer", mock.Anything, updated.RequestID, mock.Anything,
		mock.MatchedBy(func(c *string) bool { return c != nil && *c == "looks fine" })).Return(updated, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers/"+updated.RequestID+"/approve", []byte(`{"comments":"looks fine"}`), "Approver")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTransferService.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestApproveTransfer_Forbidden() {
	id := uuid.NewString()
	suite.mockTransferService.On("ApproveTransfer", mock.Anything, id, mock.Anything, (*string)(nil)).
		Return(nil, apperrors.NewForbiddenError("Approver/ComplianceOfficer role required")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers/"+id+"/approve", nil, "Requester")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Approver/ComplianceOfficer role required", suite.decodeMessage(w))
}

func (suite *TransferHandlerTestSuite) TestRejectTransfer_InvalidState() {
	id := uuid.NewString()
	suite.mockTransferService.On("RejectTransfer", mock.Anything, id, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInvalidStateError("Only InReview requests can be rejected.")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers/"+id+"/reject", []byte(`{"comments":"no"}`), "Approver")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Only InReview requests can be rejected.", suite.decodeMessage(w))
}

func (suite *TransferHandlerTestSuite) TestRejectTransfer_CommentsTooLong() {
	id := uuid.NewString()
	long, _ := json.Marshal(dto.DecisionRequest{Comments: strPtr(string(bytes.Repeat([]byte("x"), 2001)))})

	w := suite.do(http.MethodPost, "/api/v1/transfers/"+id+"/reject", long, "Approver")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransferService.AssertNotCalled(suite.T(), "RejectTransfer")
}

func (suite *TransferHandlerTestSuite) TestListAuditEvents() {
	id := uuid.NewString()
	details := "Risk='Medium', Status='InReview'"
	events := []domain.AuditEvent{
		{AuditID: uuid.NewString(), RequestID: &id, Action: domain.AuditTransferCreated, Timestamp: time.Now().UTC()},
		{AuditID: uuid.NewString(), RequestID: &id, Action: domain.AuditTransferSubmitted, Details: &details, Timestamp: time.Now().UTC()},
	}
	suite.mockAuditService.On("ListAuditEvents", mock.Anything, id, suite.principalFor(domain.RoleAuditor)).Return(events, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transfers/"+id+"/audit", nil, "Auditor")

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AuditEventResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 2)
	suite.Equal("TransferCreated", resp[0].Action)
	suite.Equal("TransferSubmitted", resp[1].Action)
	suite.Require().NotNil(resp[1].Details)
	suite.Equal(details, *resp[1].Details)
}

func (suite *TransferHandlerTestSuite) TestListAuditEvents_UnknownRequestIsEmpty() {
	id := uuid.NewString()
	suite.mockAuditService.On("ListAuditEvents", mock.Anything, id, mock.Anything).
		Return([]domain.AuditEvent{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transfers/"+id+"/audit", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func strPtr(s string) *string {
	return &s
}

func TestTransferHandler(t *testing.T) {
	suite.Run(t, new(TransferHandlerTestSuite))
}
