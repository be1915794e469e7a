// Package catalog manages item definitions and case definitions. It owns
// admin-facing validation; every item it returns carries a CurrentValue
// freshly derived by the valuation package.
package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mkrelic/casevault/internal/domain"
	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/repository"
	"github.com/mkrelic/casevault/internal/valuation"
)

// CreateItemInput carries a new item definition from the command layer
type CreateItemInput struct {
	ItemID    string        `json:"item_id" validate:"required"`
	Name      string        `json:"name" validate:"required"`
	ImageRef  string        `json:"image_ref"`
	BaseValue int           `json:"base_value" validate:"required,gt=0"`
	RAP       int           `json:"rap" validate:"gte=0"`
	Rarity    domain.Rarity `json:"rarity" validate:"required"`
}

// CreateCaseInput carries a new case definition from the command layer
type CreateCaseInput struct {
	CaseID          string   `json:"case_id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	ImageRef        string   `json:"image_ref"`
	Price           int      `json:"price" validate:"required,gt=0"`
	PossibleItemIDs []string `json:"possible_item_ids" validate:"required,min=1,dive,required"`
}

// Service defines the interface for catalog operations
type Service interface {
	CreateItem(ctx context.Context, in CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, itemID string, upd domain.ItemUpdate) (*domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)

	CreateCase(ctx context.Context, in CreateCaseInput) (*domain.Case, error)
	UpdateCase(ctx context.Context, caseID string, upd domain.CaseUpdate) (*domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
}

type service struct {
	repo     repository.Catalog
	validate *validator.Validate
}

// NewService creates a new catalog service
func NewService(repo repository.Catalog) Service {
	return &service{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *service) CreateItem(ctx context.Context, in CreateItemInput) (*domain.Item, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !in.Rarity.Valid() {
		return nil, fmt.Errorf("%w: unknown rarity %q", domain.ErrValidation, in.Rarity)
	}

	item := &domain.Item{
		ItemID:    in.ItemID,
		Name:      in.Name,
		ImageRef:  in.ImageRef,
		BaseValue: in.BaseValue,
		RAP:       in.RAP,
		Rarity:    in.Rarity,
	}
	if err := s.repo.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	valuation.Apply(item)
	log.Info("Item created", "item", item.ItemID, "rarity", item.Rarity, "base_value", item.BaseValue)
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID string, upd domain.ItemUpdate) (*domain.Item, error) {
	log := logger.FromContext(ctx)

	if upd.BaseValue != nil && *upd.BaseValue <= 0 {
		return nil, fmt.Errorf("%w: base_value must be positive", domain.ErrValidation)
	}
	if upd.Rarity != nil && !upd.Rarity.Valid() {
		return nil, fmt.Errorf("%w: unknown rarity %q", domain.ErrValidation, *upd.Rarity)
	}
	if upd.RAP != nil && *upd.RAP < 0 {
		return nil, fmt.Errorf("%w: rap must not be negative", domain.ErrValidation)
	}

	item, err := s.repo.UpdateItem(ctx, itemID, upd)
	if err != nil {
		return nil, err
	}

	valuation.Apply(item)
	log.Info("Item updated", "item", itemID)
	return item, nil
}

func (s *service) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	valuation.Apply(item)
	return item, nil
}

func (s *service) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		valuation.Apply(&items[i])
	}
	return items, nil
}

func (s *service) CreateCase(ctx context.Context, in CreateCaseInput) (*domain.Case, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	c := &domain.Case{
		CaseID:          in.CaseID,
		Name:            in.Name,
		ImageRef:        in.ImageRef,
		Price:           in.Price,
		PossibleItemIDs: in.PossibleItemIDs,
	}
	if err := s.repo.InsertCase(ctx, c); err != nil {
		return nil, err
	}

	log.Info("Case created", "case", c.CaseID, "price", c.Price, "slots", len(c.PossibleItemIDs))
	return c, nil
}

func (s *service) UpdateCase(ctx context.Context, caseID string, upd domain.CaseUpdate) (*domain.Case, error) {
	log := logger.FromContext(ctx)

	if upd.Price != nil && *upd.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	if upd.PossibleItemIDs != nil && len(upd.PossibleItemIDs) == 0 {
		return nil, fmt.Errorf("%w: possible_item_ids must not be empty", domain.ErrValidation)
	}

	c, err := s.repo.UpdateCase(ctx, caseID, upd)
	if err != nil {
		return nil, err
	}

	log.Info("Case updated", "case", caseID)
	return c, nil
}

func (s *service) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return s.repo.GetCase(ctx, caseID)
}

func (s *service) ListCases(ctx context.Context) ([]domain.Case, error) {
	return s.repo.ListCases(ctx)
}
