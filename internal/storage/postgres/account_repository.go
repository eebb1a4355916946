package postgres

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	const stmt = `
INSERT INTO accounts (id, name, kind, balance, frozen, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querierFrom(ctx, r.pool).Exec(ctx, stmt,
		account.ID,
		account.Name,
		string(account.Kind),
		account.Balance,
		account.Frozen,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	return getAccount(ctx, querierFrom(ctx, r.pool), accountID)
}

func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error) {
	return getAccountForUpdate(ctx, querierFrom(ctx, r.pool), accountID)
}

func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance int64) error {
	return updateAccountBalance(ctx, querierFrom(ctx, r.pool), accountID, balance)
}

func (r *AccountRepository) SetAccountFrozen(ctx context.Context, accountID string, frozen bool) error {
	const stmt = `UPDATE accounts SET frozen = $2 WHERE id = $1`

	tag, err := querierFrom(ctx, r.pool).Exec(ctx, stmt, accountID, frozen)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set account frozen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ListStudentAccounts(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT id, name, kind, balance, frozen, created_at
FROM accounts
WHERE kind = 'student'
ORDER BY name`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list student accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var kind string
		if err := rows.Scan(&a.ID, &a.Name, &kind, &a.Balance, &a.Frozen, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Kind = domain.AccountKind(kind)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) CreateTransaction(ctx context.Context, rec domain.TransactionRecord) error {
	return insertTransaction(ctx, querierFrom(ctx, r.pool), rec)
}

func (r *AccountRepository) ListTransactions(ctx context.Context) ([]domain.TransactionRecord, error) {
	const query = `
SELECT id, COALESCE(account_id::text, ''), kind, amount, description, created_at
FROM transactions
ORDER BY created_at DESC, id`

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var rec domain.TransactionRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.AccountID, &kind, &rec.Amount, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.Kind = domain.TransactionKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}
