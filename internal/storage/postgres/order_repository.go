package postgres

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.OrderLine, error) {
	const query = `
SELECT id, account_id, menu_item_id, item_name, quantity, line_total, payment_status, fulfillment_status, created_at
FROM order_lines
WHERE id = $1`

	line, err := scanOrderLine(querierFrom(ctx, r.pool).QueryRow(ctx, query, orderID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.OrderLine{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.OrderLine{}, domain.ErrOrderNotFound
		}
		return domain.OrderLine{}, fmt.Errorf("get order: %w", err)
	}
	return line, nil
}

func (r *OrderRepository) ListUnpaidOrders(ctx context.Context, accountID string) ([]domain.OrderLine, error) {
	return listUnpaidOrders(ctx, querierFrom(ctx, r.pool), accountID)
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	const stmt = `DELETE FROM order_lines WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, orderID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) MarkOrderCompleted(ctx context.Context, orderID string) error {
	const stmt = `UPDATE order_lines SET fulfillment_status = 'completed' WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, orderID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("mark order completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ListPaidOrders(ctx context.Context) ([]domain.PaidOrder, error) {
	const query = `
SELECT o.id, o.account_id, o.menu_item_id, o.item_name, o.quantity, o.line_total,
	o.payment_status, o.fulfillment_status, o.created_at, a.name
FROM order_lines o
JOIN accounts a ON a.id = o.account_id
WHERE o.payment_status = 'paid'
ORDER BY o.created_at DESC, o.id`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.PaidOrder
	for rows.Next() {
		var po domain.PaidOrder
		var payment, fulfillment string
		err := rows.Scan(
			&po.Line.ID,
			&po.Line.AccountID,
			&po.Line.MenuItemID,
			&po.Line.ItemName,
			&po.Line.Quantity,
			&po.Line.LineTotal,
			&payment,
			&fulfillment,
			&po.Line.CreatedAt,
			&po.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan paid order: %w", err)
		}
		po.Line.PaymentStatus = domain.PaymentStatus(payment)
		po.Line.FulfillmentStatus = domain.FulfillmentStatus(fulfillment)
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error) {
	return getAccountForUpdate(ctx, querierFrom(ctx, r.pool), accountID)
}

func (r *OrderRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance int64) error {
	return updateAccountBalance(ctx, querierFrom(ctx, r.pool), accountID, balance)
}

func (r *OrderRepository) CreateTransaction(ctx context.Context, rec domain.TransactionRecord) error {
	return insertTransaction(ctx, querierFrom(ctx, r.pool), rec)
}

func scanOrderLine(row pgx.Row) (domain.OrderLine, error) {
	var line domain.OrderLine
	var payment, fulfillment string
	err := row.Scan(
		&line.ID,
		&line.AccountID,
		&line.MenuItemID,
		&line.ItemName,
		&line.Quantity,
		&line.LineTotal,
		&payment,
		&fulfillment,
		&line.CreatedAt,
	)
	if err != nil {
		return domain.OrderLine{}, err
	}
	line.PaymentStatus = domain.PaymentStatus(payment)
	line.FulfillmentStatus = domain.FulfillmentStatus(fulfillment)
	return line, nil
}
