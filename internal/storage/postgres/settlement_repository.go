package postgres

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

func (r *SettlementRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SettlementRepository) GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error) {
	return getAccountForUpdate(ctx, querierFrom(ctx, r.pool), accountID)
}

func (r *SettlementRepository) ListUnpaidOrders(ctx context.Context, accountID string) ([]domain.OrderLine, error) {
	return listUnpaidOrders(ctx, querierFrom(ctx, r.pool), accountID)
}

func (r *SettlementRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance int64) error {
	return updateAccountBalance(ctx, querierFrom(ctx, r.pool), accountID, balance)
}

// MarkOrdersPaid flips the given lines to paid. The caller computed the set
// inside the same transaction, so every id must still match an unpaid row.
func (r *SettlementRepository) MarkOrdersPaid(ctx context.Context, orderIDs []string) error {
	const stmt = `
UPDATE order_lines
SET payment_status = 'paid'
WHERE id = ANY($1) AND payment_status = 'unpaid'`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, orderIDs)
	if err != nil {
		return fmt.Errorf("mark orders paid: %w", err)
	}
	if tag.RowsAffected() != int64(len(orderIDs)) {
		return fmt.Errorf("mark orders paid: expected %d rows, updated %d", len(orderIDs), tag.RowsAffected())
	}
	return nil
}

func (r *SettlementRepository) CreateTransaction(ctx context.Context, rec domain.TransactionRecord) error {
	return insertTransaction(ctx, querierFrom(ctx, r.pool), rec)
}

func listUnpaidOrders(ctx context.Context, q querier, accountID string) ([]domain.OrderLine, error) {
	const query = `
SELECT id, account_id, menu_item_id, item_name, quantity, line_total, payment_status, fulfillment_status, created_at
FROM order_lines
WHERE account_id = $1 AND payment_status = 'unpaid'
ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list unpaid orders: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
