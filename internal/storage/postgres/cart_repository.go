package postgres

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetAvailableMenuItem returns nil when the item is missing, unavailable or
// its id is not a UUID; the cart layer skips such entries instead of failing
// the cart. Malformed ids are rejected before the query runs, so a lookup
// inside an open transaction never aborts it.
func (r *CartRepository) GetAvailableMenuItem(ctx context.Context, itemID string) (*domain.MenuItem, error) {
	if uuid.Validate(itemID) != nil {
		return nil, nil
	}

	const query = `
SELECT id, name, description, price, category, available, created_at
FROM menu_items
WHERE id = $1 AND available`

	var item domain.MenuItem
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, itemID).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.Available,
		&item.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &item, nil
}

func (r *CartRepository) CreateOrderLine(ctx context.Context, line domain.OrderLine) error {
	const stmt = `
INSERT INTO order_lines
	(id, account_id, menu_item_id, item_name, quantity, line_total, payment_status, fulfillment_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querierFrom(ctx, r.pool).Exec(ctx, stmt,
		line.ID,
		line.AccountID,
		line.MenuItemID,
		line.ItemName,
		line.Quantity,
		line.LineTotal,
		string(line.PaymentStatus),
		string(line.FulfillmentStatus),
		line.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order line: %w", err)
	}
	return nil
}
