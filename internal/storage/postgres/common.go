package postgres

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Account and ledger statements shared by every repository that participates
// in a balance-affecting transaction. All balance mutations go through the
// FOR UPDATE row lock taken here.

func getAccountForUpdate(ctx context.Context, q querier, accountID string) (domain.Account, error) {
	const query = `
SELECT id, name, kind, balance, frozen, created_at
FROM accounts
WHERE id = $1
FOR UPDATE`

	return scanAccount(q.QueryRow(ctx, query, accountID))
}

func getAccount(ctx context.Context, q querier, accountID string) (domain.Account, error) {
	const query = `SELECT id, name, kind, balance, frozen, created_at FROM accounts WHERE id = $1`
	return scanAccount(q.QueryRow(ctx, query, accountID))
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	var kind string
	err := row.Scan(&a.ID, &a.Name, &kind, &a.Balance, &a.Frozen, &a.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Account{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	a.Kind = domain.AccountKind(kind)
	return a, nil
}

func updateAccountBalance(ctx context.Context, q querier, accountID string, balance int64) error {
	const stmt = `UPDATE accounts SET balance = $2 WHERE id = $1`

	tag, err := q.Exec(ctx, stmt, accountID, balance)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func insertTransaction(ctx context.Context, q querier, rec domain.TransactionRecord) error {
	const stmt = `
INSERT INTO transactions (id, account_id, kind, amount, description, created_at)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6)`

	_, err := q.Exec(ctx, stmt,
		rec.ID,
		rec.AccountID,
		string(rec.Kind),
		rec.Amount,
		rec.Description,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
