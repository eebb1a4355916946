package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/canteenlab/kiosk-api/internal/app"
	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/canteenlab/kiosk-api/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestSettlementRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewSettlementRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetAccountForUpdate inside a transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "Aina", domain.AccountKindStudent, 20, false)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			account, err := repo.GetAccountForUpdate(txCtx, accountID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if account.ID != accountID || account.Balance != 20 {
				t.Fatalf("unexpected account: %+v", account)
			}

			missingID := "00000000-0000-0000-0000-000000000001"
			if _, err := repo.GetAccountForUpdate(txCtx, missingID); err != domain.ErrAccountNotFound {
				t.Fatalf("expected ErrAccountNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
	})

	t.Run("ListUnpaidOrders excludes paid lines and other accounts", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "Aina", domain.AccountKindStudent, 20, false)
		otherID := testutil.InsertAccount(t, ctx, pool, "Ben", domain.AccountKindStudent, 20, false)
		itemID := testutil.InsertMenuItem(t, ctx, pool, "Nasi Lemak", decimal.RequireFromString("2.50"), true)

		unpaidID := testutil.InsertOrderLine(t, ctx, pool, accountID, itemID, domain.OrderLine{
			ItemName: "Nasi Lemak", Quantity: 1, LineTotal: decimal.RequireFromString("2.50"),
		})
		testutil.InsertOrderLine(t, ctx, pool, accountID, itemID, domain.OrderLine{
			ItemName: "Nasi Lemak", Quantity: 1, LineTotal: decimal.RequireFromString("2.50"),
			PaymentStatus: domain.PaymentStatusPaid,
		})
		testutil.InsertOrderLine(t, ctx, pool, otherID, itemID, domain.OrderLine{
			ItemName: "Nasi Lemak", Quantity: 1, LineTotal: decimal.RequireFromString("2.50"),
		})

		lines, err := repo.ListUnpaidOrders(ctx, accountID)
		if err != nil {
			t.Fatalf("list unpaid: %v", err)
		}
		if len(lines) != 1 || lines[0].ID != unpaidID {
			t.Fatalf("unexpected lines: %+v", lines)
		}
		if !lines[0].LineTotal.Equal(decimal.RequireFromString("2.50")) {
			t.Fatalf("expected line total 2.50, got %s", lines[0].LineTotal)
		}
	})

	t.Run("MarkOrdersPaid fails when a line is already paid", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "Aina", domain.AccountKindStudent, 20, false)
		itemID := testutil.InsertMenuItem(t, ctx, pool, "Nasi Lemak", decimal.RequireFromString("2.50"), true)

		unpaidID := testutil.InsertOrderLine(t, ctx, pool, accountID, itemID, domain.OrderLine{
			ItemName: "Nasi Lemak", Quantity: 1, LineTotal: decimal.RequireFromString("2.50"),
		})
		paidID := testutil.InsertOrderLine(t, ctx, pool, accountID, itemID, domain.OrderLine{
			ItemName: "Nasi Lemak", Quantity: 1, LineTotal: decimal.RequireFromString("2.50"),
			PaymentStatus: domain.PaymentStatusPaid,
		})

		if err := repo.MarkOrdersPaid(ctx, []string{unpaidID, paidID}); err == nil {
			t.Fatalf("expected error for already-paid line")
		}

		if err := repo.MarkOrdersPaid(ctx, []string{unpaidID}); err != nil {
			t.Fatalf("mark orders paid: %v", err)
		}
		lines, err := repo.ListUnpaidOrders(ctx, accountID)
		if err != nil {
			t.Fatalf("list unpaid: %v", err)
		}
		if len(lines) != 0 {
			t.Fatalf("expected no unpaid lines, got %d", len(lines))
		}
	})
}

// TestSettlement_Concurrent drives the full settlement service against the
// real store from two goroutines. The account row lock must serialize them:
// one debit, one payment record, never both.
func TestSettlement_Concurrent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	accountID := testutil.InsertAccount(t, ctx, pool, "Aina", domain.AccountKindStudent, 10, false)
	itemID := testutil.InsertMenuItem(t, ctx, pool, "Nasi Lemak", decimal.RequireFromString("10.00"), true)
	testutil.InsertOrderLine(t, ctx, pool, accountID, itemID, domain.OrderLine{
		ItemName: "Nasi Lemak", Quantity: 1, LineTotal: decimal.RequireFromString("10.00"),
	})

	repo := NewSettlementRepository(pool)
	svc := app.NewSettlementService(repo, clock.NewSystem(), nil, nil)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Settle(ctx, accountID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		switch err {
		case nil:
			succeeded++
		case domain.ErrNoUnpaidOrders:
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful settlement, got %d", succeeded)
	}

	var balance int64
	if err := pool.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance); err != nil {
		t.Fatalf("read balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected balance 0 after single debit, got %d", balance)
	}

	var records int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE kind = 'Payment'`).Scan(&records); err != nil {
		t.Fatalf("count records: %v", err)
	}
	if records != 1 {
		t.Fatalf("expected exactly one payment record, got %d", records)
	}
}
