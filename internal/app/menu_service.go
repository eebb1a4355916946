package app

import (
	"context"

	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/shopspring/decimal"
)

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item domain.MenuItem) error
	ListAvailableItems(ctx context.Context) ([]domain.MenuItem, error)
	SetItemAvailability(ctx context.Context, itemID string, available bool) error
}

// MenuService owns the catalog. The settlement core only ever reads it.
type MenuService struct {
	repo  MenuRepository
	clock clock.Clock
}

func NewMenuService(repo MenuRepository, clk clock.Clock) *MenuService {
	return &MenuService{
		repo:  repo,
		clock: clk,
	}
}

type CreateMenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
}

func (s *MenuService) CreateItem(ctx context.Context, actor domain.Actor, in CreateMenuItemInput) (domain.MenuItem, error) {
	if !actor.IsAdmin() {
		return domain.MenuItem{}, domain.ErrForbidden
	}
	if in.Name == "" {
		return domain.MenuItem{}, domain.ErrNameRequired
	}
	if !in.Price.IsPositive() {
		return domain.MenuItem{}, domain.ErrInvalidAmount
	}

	item := domain.MenuItem{
		ID:          newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Available:   true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

// ListMenu returns available items ordered by category then name.
func (s *MenuService) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListAvailableItems(ctx)
}

func (s *MenuService) SetAvailability(ctx context.Context, actor domain.Actor, itemID string, available bool) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.SetItemAvailability(ctx, itemID, available)
}
