package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/repository"
)

// MockInventoryRepo implements repository.Inventory for testing
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) Grant(ctx context.Context, userID, itemID string) (bool, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepo) Revoke(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockInventoryRepo) ListUserItems(ctx context.Context, userID string) ([]domain.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

// MockCatalogRepo implements repository.Catalog for testing
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) InsertItem(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCatalogRepo) UpdateItem(ctx context.Context, itemID string, upd domain.ItemUpdate) (*domain.Item, error) {
	args := m.Called(ctx, itemID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalogRepo) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalogRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockCatalogRepo) InsertCase(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCatalogRepo) UpdateCase(ctx context.Context, caseID string, upd domain.CaseUpdate) (*domain.Case, error) {
	args := m.Called(ctx, caseID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCatalogRepo) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCatalogRepo) ListCases(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

// MockLedgerRepo implements repository.Ledger for testing
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) GetOrCreateUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockLedgerRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockLedgerRepo) BeginClaim(ctx context.Context, userID string) (repository.ClaimTx, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ClaimTx), args.Error(1)
}

func newTestService() (Service, *MockInventoryRepo, *MockCatalogRepo, *MockLedgerRepo) {
	invRepo := &MockInventoryRepo{}
	catRepo := &MockCatalogRepo{}
	ledRepo := &MockLedgerRepo{}
	return NewService(invRepo, catRepo, ledRepo), invRepo, catRepo, ledRepo
}

func testUser() *domain.User {
	return &domain.User{UserID: "user-123", Balance: domain.DefaultStartingBalance}
}

func TestGrant_Success(t *testing.T) {
	service, invRepo, catRepo, ledRepo := newTestService()
	ctx := context.Background()

	item := &domain.Item{ItemID: "fedora", BaseValue: 500_000, Rarity: domain.RarityLegendary, OwnerCount: 1}
	catRepo.On("GetItem", ctx, "fedora").Return(item, nil)
	ledRepo.On("GetOrCreateUser", ctx, "user-123").Return(testUser(), nil)
	invRepo.On("Grant", ctx, "user-123", "fedora").Return(true, nil)

	got, err := service.Grant(ctx, "user-123", "fedora")

	require.NoError(t, err)
	assert.Equal(t, "fedora", got.ItemID)
	// 1.5 - 0.01*1 owner
	assert.Equal(t, 745_000, got.CurrentValue)
	invRepo.AssertExpectations(t)
	ledRepo.AssertExpectations(t)
}

func TestGrant_AlreadyOwnedIsNoOp(t *testing.T) {
	service, invRepo, catRepo, ledRepo := newTestService()
	ctx := context.Background()

	item := &domain.Item{ItemID: "fedora", BaseValue: 100, Rarity: domain.RarityCommon, OwnerCount: 3}
	catRepo.On("GetItem", ctx, "fedora").Return(item, nil)
	ledRepo.On("GetOrCreateUser", ctx, "user-123").Return(testUser(), nil)
	invRepo.On("Grant", ctx, "user-123", "fedora").Return(false, nil)

	got, err := service.Grant(ctx, "user-123", "fedora")

	require.NoError(t, err)
	assert.Equal(t, 3, got.OwnerCount, "owner count unchanged by duplicate grant")
}

func TestGrant_UnknownItem(t *testing.T) {
	service, invRepo, catRepo, _ := newTestService()
	ctx := context.Background()

	catRepo.On("GetItem", ctx, "ghost").Return(nil, domain.ErrItemNotFound)

	_, err := service.Grant(ctx, "user-123", "ghost")

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	invRepo.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRevoke_Success(t *testing.T) {
	service, invRepo, catRepo, _ := newTestService()
	ctx := context.Background()

	invRepo.On("Revoke", ctx, "user-123", "fedora").Return(nil)
	catRepo.On("GetItem", ctx, "fedora").Return(&domain.Item{ItemID: "fedora", BaseValue: 100, Rarity: domain.RarityCommon}, nil)

	got, err := service.Revoke(ctx, "user-123", "fedora")

	require.NoError(t, err)
	assert.Equal(t, "fedora", got.ItemID)
}

func TestRevoke_NotOwned(t *testing.T) {
	service, invRepo, catRepo, _ := newTestService()
	ctx := context.Background()

	invRepo.On("Revoke", ctx, "user-123", "fedora").Return(domain.ErrItemNotOwned)

	_, err := service.Revoke(ctx, "user-123", "fedora")

	assert.ErrorIs(t, err, domain.ErrItemNotOwned)
	catRepo.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
}

func TestGetUserInventory_AppliesValuation(t *testing.T) {
	service, invRepo, _, _ := newTestService()
	ctx := context.Background()

	invRepo.On("ListUserItems", ctx, "user-123").Return([]domain.Item{
		{ItemID: "a", BaseValue: 1_000_000, Rarity: domain.RarityLegendary, OwnerCount: 10},
		{ItemID: "b", BaseValue: 200, RAP: 250, Rarity: domain.RarityCommon, OwnerCount: 9999},
	}, nil)

	items, err := service.GetUserInventory(ctx, "user-123")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1_400_000, items[0].CurrentValue)
	assert.Equal(t, 200, items[1].CurrentValue)
}

func TestCalculateInventoryValue(t *testing.T) {
	service, invRepo, _, _ := newTestService()
	ctx := context.Background()

	invRepo.On("ListUserItems", ctx, "user-123").Return([]domain.Item{
		{ItemID: "a", BaseValue: 1_000_000, Rarity: domain.RarityLegendary, OwnerCount: 10},
		{ItemID: "b", BaseValue: 200, Rarity: domain.RarityCommon},
	}, nil)

	total, err := service.CalculateInventoryValue(ctx, "user-123")

	require.NoError(t, err)
	assert.Equal(t, 1_400_200, total)
}

func TestCalculateInventoryRAP_IgnoresScarcity(t *testing.T) {
	service, invRepo, _, _ := newTestService()
	ctx := context.Background()

	invRepo.On("ListUserItems", ctx, "user-123").Return([]domain.Item{
		{ItemID: "a", BaseValue: 1_000_000, RAP: 800_000, Rarity: domain.RarityLegendary, OwnerCount: 1},
		{ItemID: "b", BaseValue: 200, RAP: 300, Rarity: domain.RarityCommon},
	}, nil)

	total, err := service.CalculateInventoryRAP(ctx, "user-123")

	require.NoError(t, err)
	assert.Equal(t, 800_300, total)
}

func TestCalculateInventoryValue_EmptyInventory(t *testing.T) {
	service, invRepo, _, _ := newTestService()
	ctx := context.Background()

	invRepo.On("ListUserItems", ctx, "user-123").Return([]domain.Item{}, nil)

	total, err := service.CalculateInventoryValue(ctx, "user-123")

	require.NoError(t, err)
	assert.Zero(t, total)
}
