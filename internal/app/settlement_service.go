package app

import (
	"context"
	"fmt"

	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/canteenlab/kiosk-api/internal/events"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type SettlementRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error)
	ListUnpaidOrders(ctx context.Context, accountID string) ([]domain.OrderLine, error)
	UpdateAccountBalance(ctx context.Context, accountID string, balance int64) error
	MarkOrdersPaid(ctx context.Context, orderIDs []string) error
	CreateTransaction(ctx context.Context, rec domain.TransactionRecord) error
}

// SettlementService converts a student's full set of unpaid orders into paid
// orders with a single aggregate debit. Everything happens in one transaction
// with the account row locked, so concurrent settles, top-ups and refunds for
// the same account serialize on the row lock.
type SettlementService struct {
	repo      SettlementRepository
	clock     clock.Clock
	publisher events.Publisher
	log       *logrus.Logger
}

func NewSettlementService(repo SettlementRepository, clk clock.Clock, pub events.Publisher, log *logrus.Logger) *SettlementService {
	return &SettlementService{
		repo:      repo,
		clock:     clk,
		publisher: pub,
		log:       log,
	}
}

type SettleResult struct {
	TotalCharged  int64
	OrdersSettled int
}

// Settle debits the account once for the rounded aggregate of its unpaid
// orders and flips them all to paid. No partial settlement: on any failure
// the transaction rolls back and the triggering error is returned unchanged.
func (s *SettlementService) Settle(ctx context.Context, accountID string) (SettleResult, error) {
	now := s.clock.Now()
	var result SettleResult
	var record domain.TransactionRecord

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		account, err := s.repo.GetAccountForUpdate(txCtx, accountID)
		if err != nil {
			return err
		}

		unpaid, err := s.repo.ListUnpaidOrders(txCtx, accountID)
		if err != nil {
			return err
		}
		if len(unpaid) == 0 {
			return domain.ErrNoUnpaidOrders
		}
		if account.Frozen {
			return domain.ErrAccountFrozen
		}

		sum := decimal.Zero
		ids := make([]string, 0, len(unpaid))
		for _, line := range unpaid {
			sum = sum.Add(line.LineTotal)
			ids = append(ids, line.ID)
		}
		// The aggregate is rounded to whole balance units, not each line.
		total := roundToUnits(sum)

		if account.Balance < total {
			return domain.ErrInsufficientBalance
		}

		if err := s.repo.UpdateAccountBalance(txCtx, accountID, account.Balance-total); err != nil {
			return err
		}
		if err := s.repo.MarkOrdersPaid(txCtx, ids); err != nil {
			return err
		}

		record = domain.TransactionRecord{
			ID:          newID(),
			AccountID:   accountID,
			Kind:        domain.TransactionKindPayment,
			Amount:      decimal.NewFromInt(total).Neg(),
			Description: fmt.Sprintf("Payment for %d items", len(unpaid)),
			CreatedAt:   now,
		}
		if err := s.repo.CreateTransaction(txCtx, record); err != nil {
			return err
		}

		result = SettleResult{
			TotalCharged:  total,
			OrdersSettled: len(unpaid),
		}
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}

	publishTransaction(s.publisher, s.log, record)
	return result, nil
}
