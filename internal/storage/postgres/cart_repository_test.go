package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/canteenlab/kiosk-api/internal/app"
	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/canteenlab/kiosk-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCartRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewCartRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetAvailableMenuItem returns nil for missing, unavailable and malformed ids", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		itemID := testutil.InsertMenuItem(t, ctx, pool, "Nasi Lemak", decimal.RequireFromString("2.50"), true)
		soldOutID := testutil.InsertMenuItem(t, ctx, pool, "Laksa", decimal.RequireFromString("3.00"), false)

		item, err := repo.GetAvailableMenuItem(ctx, itemID)
		if err != nil {
			t.Fatalf("get item: %v", err)
		}
		if item == nil || item.Name != "Nasi Lemak" {
			t.Fatalf("unexpected item: %+v", item)
		}

		for _, id := range []string{soldOutID, "00000000-0000-0000-0000-000000000001", "not-a-uuid"} {
			item, err := repo.GetAvailableMenuItem(ctx, id)
			if err != nil {
				t.Fatalf("get item %s: %v", id, err)
			}
			if item != nil {
				t.Fatalf("expected nil for %s, got %+v", id, item)
			}
		}
	})

	t.Run("CreateOrderLine persists and rolls back with the transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "Aina", domain.AccountKindStudent, 20, false)
		itemID := testutil.InsertMenuItem(t, ctx, pool, "Nasi Lemak", decimal.RequireFromString("2.50"), true)

		line := domain.OrderLine{
			ID:                uuid.NewString(),
			AccountID:         accountID,
			MenuItemID:        itemID,
			ItemName:          "Nasi Lemak",
			Quantity:          2,
			LineTotal:         decimal.RequireFromString("5.00"),
			PaymentStatus:     domain.PaymentStatusUnpaid,
			FulfillmentStatus: domain.FulfillmentStatusPending,
			CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
		}
		if err := repo.CreateOrderLine(ctx, line); err != nil {
			t.Fatalf("create order line: %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_lines`).Scan(&count); err != nil {
			t.Fatalf("count lines: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 line, got %d", count)
		}

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			inner := line
			inner.ID = uuid.NewString()
			if err := repo.CreateOrderLine(txCtx, inner); err != nil {
				t.Fatalf("create line in tx: %v", err)
			}
			return domain.ErrEmptyOrder
		})
		if err != domain.ErrEmptyOrder {
			t.Fatalf("expected ErrEmptyOrder, got %v", err)
		}

		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_lines`).Scan(&count); err != nil {
			t.Fatalf("count lines: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected rollback to keep 1 line, got %d", count)
		}
	})

	t.Run("mixed cart skips malformed and unknown ids without aborting the transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		accountID := testutil.InsertAccount(t, ctx, pool, "Aina", domain.AccountKindStudent, 20, false)
		itemID := testutil.InsertMenuItem(t, ctx, pool, "Nasi Lemak", decimal.RequireFromString("2.50"), true)

		svc := app.NewCartService(repo, clock.NewSystem())
		payload := fmt.Sprintf(
			`[{"item_id":"not-a-uuid","quantity":1},{"item_id":%q,"quantity":2},{"item_id":"00000000-0000-0000-0000-000000000001","quantity":1}]`,
			itemID,
		)

		result, err := svc.SubmitCart(ctx, app.SubmitCartInput{AccountID: accountID, Payload: []byte(payload)})
		if err != nil {
			t.Fatalf("submit cart: %v", err)
		}
		if result.OrdersCreated != 1 {
			t.Fatalf("expected 1 order created, got %d", result.OrdersCreated)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_lines WHERE account_id = $1`, accountID).Scan(&count); err != nil {
			t.Fatalf("count lines: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 persisted line, got %d", count)
		}
	})
}
