package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkrelic/casevault/internal/caseopen"
	"github.com/mkrelic/casevault/internal/domain"
)

// MockCaseOpenService mocks caseopen.Service
type MockCaseOpenService struct {
	mock.Mock
}

func (m *MockCaseOpenService) OpenCase(ctx context.Context, userID, caseID string) (*caseopen.OpenResult, error) {
	args := m.Called(ctx, userID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caseopen.OpenResult), args.Error(1)
}

func newCaseOpenRouter(svc caseopen.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/users/{userID}/open", HandleOpenCase(svc))
	return r
}

func TestHandleOpenCase_Success(t *testing.T) {
	mockSvc := &MockCaseOpenService{}
	mockSvc.On("OpenCase", mock.Anything, "user-123", "premium_case").Return(&caseopen.OpenResult{
		CaseID:     "premium_case",
		CaseName:   "Premium Case",
		PricePaid:  10_000,
		NewBalance: 15_000,
		Item:       domain.Item{ItemID: "dominus", CurrentValue: 1_400_000},
	}, nil)

	req := httptest.NewRequest("POST", "/users/user-123/open", strings.NewReader(`{"case_id":"premium_case"}`))
	w := httptest.NewRecorder()

	newCaseOpenRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item_id":"dominus"`)
	assert.Contains(t, w.Body.String(), `"price_paid":10000`)
	mockSvc.AssertExpectations(t)
}

func TestHandleOpenCase_InsufficientFunds(t *testing.T) {
	mockSvc := &MockCaseOpenService{}
	mockSvc.On("OpenCase", mock.Anything, "user-123", "premium_case").
		Return(nil, domain.ErrInsufficientFunds)

	req := httptest.NewRequest("POST", "/users/user-123/open", strings.NewReader(`{"case_id":"premium_case"}`))
	w := httptest.NewRecorder()

	newCaseOpenRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgNotEnoughMoneyError)
}

func TestHandleOpenCase_CaseNotFound(t *testing.T) {
	mockSvc := &MockCaseOpenService{}
	mockSvc.On("OpenCase", mock.Anything, "user-123", "ghost_case").
		Return(nil, domain.ErrCaseNotFound)

	req := httptest.NewRequest("POST", "/users/user-123/open", strings.NewReader(`{"case_id":"ghost_case"}`))
	w := httptest.NewRecorder()

	newCaseOpenRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleOpenCase_MissingCaseID(t *testing.T) {
	mockSvc := &MockCaseOpenService{}

	req := httptest.NewRequest("POST", "/users/user-123/open", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	newCaseOpenRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "OpenCase", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleOpenCase_InvalidBody(t *testing.T) {
	mockSvc := &MockCaseOpenService{}

	req := httptest.NewRequest("POST", "/users/user-123/open", strings.NewReader(`not json`))
	w := httptest.NewRecorder()

	newCaseOpenRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "OpenCase", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleOpenCase_DataIntegrityHidesDetails(t *testing.T) {
	mockSvc := &MockCaseOpenService{}
	mockSvc.On("OpenCase", mock.Anything, "user-123", "premium_case").
		Return(nil, &domain.DataIntegrityError{CaseID: "premium_case", ItemID: "ghost"})

	req := httptest.NewRequest("POST", "/users/user-123/open", strings.NewReader(`{"case_id":"premium_case"}`))
	w := httptest.NewRecorder()

	newCaseOpenRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "ghost")
}
