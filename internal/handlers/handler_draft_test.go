package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kontoflow/kontoflow_backend/internal/apperrors"
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

// --- Mock DraftService ---
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) GetDraft(ctx context.Context, ownerID string, draftID string) (*domain.Draft, error) {
	args := m.Called(ctx, ownerID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}
func (m *MockDraftService) ListDrafts(ctx context.Context, ownerID string, params dto.ListDraftsParams) (*dto.ListDraftsResponse, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDraftsResponse), args.Error(1)
}
func (m *MockDraftService) ImportMovements(ctx context.Context, ownerID string, req dto.ImportMovementsRequest) (*dto.ImportResult, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportResult), args.Error(1)
}
func (m *MockDraftService) CreateDraft(ctx context.Context, ownerID string, req dto.CreateDraftRequest) (*domain.Draft, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}
func (m *MockDraftService) AddEntry(ctx context.Context, ownerID string, draftID string, req dto.AddEntryRequest) (*domain.Entry, error) {
	args := m.Called(ctx, ownerID, draftID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockDraftService) UpdateEntry(ctx context.Context, ownerID string, draftID string, entryID string, patch domain.EntryPatch) (*domain.Entry, error) {
	args := m.Called(ctx, ownerID, draftID, entryID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockDraftService) AssignSplitDraft(ctx context.Context, ownerID string, draftID string, entryID string, splitDraftID string) error {
	args := m.Called(ctx, ownerID, draftID, entryID, splitDraftID)
	return args.Error(0)
}
func (m *MockDraftService) DeleteDraft(ctx context.Context, ownerID string, draftID string) error {
	args := m.Called(ctx, ownerID, draftID)
	return args.Error(0)
}

var _ portssvc.DraftSvcFacade = (*MockDraftService)(nil)

// --- Mock ValidationService ---
type MockValidationService struct {
	mock.Mock
}

func (m *MockValidationService) Validate(ctx context.Context, draftID string, entryID *string, ownerID string) (*dto.ValidationResult, error) {
	args := m.Called(ctx, draftID, entryID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ValidationResult), args.Error(1)
}

var _ portssvc.ValidationSvcFacade = (*MockValidationService)(nil)

// --- Mock BookingService ---
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, draftID string, entryID *string, ownerID string, forceWarnings bool) (*dto.BookingResult, error) {
	args := m.Called(ctx, draftID, entryID, ownerID, forceWarnings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResult), args.Error(1)
}

var _ portssvc.BookingSvcFacade = (*MockBookingService)(nil)

// --- Test Suite ---
type DraftHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	draftSvc    *MockDraftService
	validateSvc *MockValidationService
	bookingSvc  *MockBookingService
	jwtSecret   string
}

func (suite *DraftHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.draftSvc = new(MockDraftService)
	suite.validateSvc = new(MockValidationService)
	suite.bookingSvc = new(MockBookingService)

	v1 := suite.router.Group("/api/v1")
	registerDraftRoutes(v1, suite.draftSvc, suite.validateSvc, suite.bookingSvc)
}

// generateTestToken creates a dummy JWT for testing.
func (suite *DraftHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "kontoflow-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *DraftHandlerTestSuite) doRequest(method, url, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *DraftHandlerTestSuite) TestGetDraftSuccess() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	draft := &domain.Draft{
		DraftID:  draftID,
		OwnerID:  ownerID,
		FileName: "statement-2024-05.csv",
		Status:   domain.DraftOpen,
	}

	suite.draftSvc.On("GetDraft", mock.Anything, ownerID, draftID).Return(draft, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/drafts/"+draftID, ownerID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DraftResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(draftID, resp.DraftID)
	suite.Equal("statement-2024-05.csv", resp.FileName)
	suite.draftSvc.AssertExpectations(suite.T())
}

func (suite *DraftHandlerTestSuite) TestGetDraftNotFound() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	suite.draftSvc.On("GetDraft", mock.Anything, ownerID, draftID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/drafts/"+draftID, ownerID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DraftHandlerTestSuite) TestGetDraftWithoutToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/drafts/"+uuid.NewString(), "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.draftSvc.AssertNotCalled(suite.T(), "GetDraft")
}

func (suite *DraftHandlerTestSuite) TestImportMovements() {
	ownerID := uuid.NewString()
	result := &dto.ImportResult{
		DraftIDs: []string{uuid.NewString(), uuid.NewString()},
		Report:   domain.SplitReport{DraftCount: 2, MovementCount: 3},
	}
	suite.draftSvc.On("ImportMovements", mock.Anything, ownerID, mock.MatchedBy(func(req dto.ImportMovementsRequest) bool {
		return req.FileName == "statement.csv" && len(req.Movements) == 3
	})).Return(result, nil).Once()

	body := dto.ImportMovementsRequest{
		FileName: "statement.csv",
		Movements: []dto.MovementRequest{
			{BookingDate: time.Now(), Amount: decimal.NewFromInt(-42)},
			{BookingDate: time.Now(), Amount: decimal.NewFromInt(100)},
			{BookingDate: time.Now(), Amount: decimal.NewFromInt(-7)},
		},
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/drafts/import", ownerID, body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ImportResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.DraftIDs, 2)
	suite.draftSvc.AssertExpectations(suite.T())
}

func (suite *DraftHandlerTestSuite) TestAssignSplitDraftConflict() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	entryID := uuid.NewString()
	splitDraftID := uuid.NewString()

	suite.draftSvc.On("AssignSplitDraft", mock.Anything, ownerID, draftID, entryID, splitDraftID).
		Return(fmt.Errorf("%w: split draft belongs to the same upload", apperrors.ErrConflict)).Once()

	url := fmt.Sprintf("/api/v1/drafts/%s/entries/%s/split-draft", draftID, entryID)
	w := suite.doRequest(http.MethodPut, url, ownerID, dto.AssignSplitDraftRequest{SplitDraftID: splitDraftID})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DraftHandlerTestSuite) TestValidateDraftPassesEntryID() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	entryID := uuid.NewString()
	result := dto.NewValidationResult()

	suite.validateSvc.On("Validate", mock.Anything, draftID, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == entryID
	}), ownerID).Return(&result, nil).Once()

	url := fmt.Sprintf("/api/v1/drafts/%s/validate?entryID=%s", draftID, entryID)
	w := suite.doRequest(http.MethodPost, url, ownerID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.validateSvc.AssertExpectations(suite.T())
}

func (suite *DraftHandlerTestSuite) TestBookDraftSuccess() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	result := &dto.BookingResult{
		Booked:          true,
		DraftCommitted:  true,
		PostingsCreated: 4,
		Validation:      dto.NewValidationResult(),
	}
	suite.bookingSvc.On("Book", mock.Anything, draftID, (*string)(nil), ownerID, false).Return(result, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/drafts/"+draftID+"/book", ownerID, dto.BookRequest{})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BookingResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.DraftCommitted)
	suite.Equal(4, resp.PostingsCreated)
}

func (suite *DraftHandlerTestSuite) TestBookDraftBlockedByDiagnostics() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	validation := dto.NewValidationResult()
	entryID := uuid.NewString()
	validation.Add(domain.NewDiagnostic(domain.CodeEntryNoContact, draftID, &entryID, entryID))
	result := &dto.BookingResult{Booked: false, Validation: validation}

	suite.bookingSvc.On("Book", mock.Anything, draftID, (*string)(nil), ownerID, false).Return(result, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/drafts/"+draftID+"/book", ownerID, dto.BookRequest{})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp dto.BookingResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Booked)
	suite.False(resp.Validation.Valid)
}

func (suite *DraftHandlerTestSuite) TestDeleteDraft() {
	ownerID := uuid.NewString()
	draftID := uuid.NewString()
	suite.draftSvc.On("DeleteDraft", mock.Anything, ownerID, draftID).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/drafts/"+draftID, ownerID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.draftSvc.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestDraftHandler(t *testing.T) {
	suite.Run(t, new(DraftHandlerTestSuite))
}
