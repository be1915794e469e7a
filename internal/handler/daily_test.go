package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/ledger"
)

// MockLedgerService mocks ledger.Service
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockLedgerService) ClaimDaily(ctx context.Context, userID string) (*ledger.ClaimResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ClaimResult), args.Error(1)
}

func newLedgerRouter(svc ledger.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/users/{userID}", HandleGetUser(svc))
	r.Post("/users/{userID}/daily", HandleClaimDaily(svc))
	return r
}

func TestHandleClaimDaily_Success(t *testing.T) {
	mockSvc := &MockLedgerService{}
	mockSvc.On("ClaimDaily", mock.Anything, "user-123").Return(&ledger.ClaimResult{
		Reward:     1500,
		BaseReward: 1000,
		Bonus:      500,
		NewBalance: 2500,
		ClaimedAt:  time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC),
	}, nil)

	req := httptest.NewRequest("POST", "/users/user-123/daily", nil)
	w := httptest.NewRecorder()

	newLedgerRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reward":1500`)
	assert.Contains(t, w.Body.String(), `"new_balance":2500`)
	mockSvc.AssertExpectations(t)
}

func TestHandleClaimDaily_OnCooldown(t *testing.T) {
	mockSvc := &MockLedgerService{}
	mockSvc.On("ClaimDaily", mock.Anything, "user-123").
		Return(nil, ledger.ErrOnCooldown{Remaining: 5 * time.Hour})

	req := httptest.NewRequest("POST", "/users/user-123/daily", nil)
	w := httptest.NewRecorder()

	newLedgerRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "5 hours remaining")
}

func TestHandleGetUser_Success(t *testing.T) {
	mockSvc := &MockLedgerService{}
	mockSvc.On("GetUser", mock.Anything, "user-123").Return(&domain.User{
		UserID:  "user-123",
		Balance: 1000,
	}, nil)

	req := httptest.NewRequest("GET", "/users/user-123", nil)
	w := httptest.NewRecorder()

	newLedgerRouter(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":1000`)
	mockSvc.AssertExpectations(t)
}
