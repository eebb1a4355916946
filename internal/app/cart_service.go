package app

import (
	"context"
	"encoding/json"

	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
)

type CartRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetAvailableMenuItem(ctx context.Context, itemID string) (*domain.MenuItem, error)
	CreateOrderLine(ctx context.Context, line domain.OrderLine) error
}

// CartService turns a submitted cart into persisted unpaid order lines.
// Ordering and paying are decoupled: no account state is touched here.
type CartService struct {
	repo  CartRepository
	clock clock.Clock
}

func NewCartService(repo CartRepository, clk clock.Clock) *CartService {
	return &CartService{
		repo:  repo,
		clock: clk,
	}
}

type SubmitCartInput struct {
	AccountID string
	Payload   []byte
}

type SubmitCartResult struct {
	OrdersCreated int
}

// SubmitCart validates the raw cart payload and persists one unpaid order
// line per surviving entry, all in one transaction. Entries referencing
// unknown or unavailable items are skipped without failing the cart; if
// nothing survives the filter, ErrEmptyOrder is returned and nothing is
// persisted.
func (s *CartService) SubmitCart(ctx context.Context, in SubmitCartInput) (SubmitCartResult, error) {
	entries, err := parseCart(in.Payload)
	if err != nil {
		return SubmitCartResult{}, err
	}

	now := s.clock.Now()
	var result SubmitCartResult

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		created := 0
		for _, entry := range entries {
			item, err := s.repo.GetAvailableMenuItem(txCtx, entry.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}

			line := domain.OrderLine{
				ID:                newID(),
				AccountID:         in.AccountID,
				MenuItemID:        item.ID,
				ItemName:          item.Name,
				Quantity:          entry.Quantity,
				LineTotal:         item.Price.Mul(decimalFromInt(entry.Quantity)),
				PaymentStatus:     domain.PaymentStatusUnpaid,
				FulfillmentStatus: domain.FulfillmentStatusPending,
				CreatedAt:         now,
			}
			if err := s.repo.CreateOrderLine(txCtx, line); err != nil {
				return err
			}
			created++
		}

		if created == 0 {
			return domain.ErrEmptyOrder
		}
		result = SubmitCartResult{OrdersCreated: created}
		return nil
	})
	if err != nil {
		return SubmitCartResult{}, err
	}
	return result, nil
}

// parseCart deserializes the raw payload and checks structural constraints.
// A cart that fails here is rejected outright; item resolution happens later.
func parseCart(payload []byte) ([]domain.CartEntry, error) {
	var entries []domain.CartEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, domain.ErrInvalidCart
	}
	if len(entries) == 0 {
		return nil, domain.ErrInvalidCart
	}
	for _, entry := range entries {
		if entry.ItemID == "" {
			return nil, domain.ErrInvalidCart
		}
		if entry.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}
	return entries, nil
}
