package postgres

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

func (r *MenuRepository) CreateMenuItem(ctx context.Context, item domain.MenuItem) error {
	const stmt = `
INSERT INTO menu_items (id, name, description, price, category, available, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querierFrom(ctx, r.pool).Exec(ctx, stmt,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.Available,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (r *MenuRepository) ListAvailableItems(ctx context.Context) ([]domain.MenuItem, error) {
	const query = `
SELECT id, name, description, price, category, available, created_at
FROM menu_items
WHERE available
ORDER BY category, name`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Category,
			&item.Available,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuRepository) SetItemAvailability(ctx context.Context, itemID string, available bool) error {
	const stmt = `UPDATE menu_items SET available = $2 WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, itemID, available)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set item availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}
