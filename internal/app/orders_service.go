package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/canteenlab/kiosk-api/internal/clock"
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/canteenlab/kiosk-api/internal/events"
	"github.com/sirupsen/logrus"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrder(ctx context.Context, orderID string) (domain.OrderLine, error)
	ListUnpaidOrders(ctx context.Context, accountID string) ([]domain.OrderLine, error)
	DeleteOrder(ctx context.Context, orderID string) error
	MarkOrderCompleted(ctx context.Context, orderID string) error
	ListPaidOrders(ctx context.Context) ([]domain.PaidOrder, error)
	GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID string, balance int64) error
	CreateTransaction(ctx context.Context, rec domain.TransactionRecord) error
}

// OrderService owns the order lifecycle outside settlement: student-facing
// listing and deletion of unpaid orders, and the staff fulfillment flow.
type OrderService struct {
	repo      OrderRepository
	clock     clock.Clock
	publisher events.Publisher
	log       *logrus.Logger
}

func NewOrderService(repo OrderRepository, clk clock.Clock, pub events.Publisher, log *logrus.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		clock:     clk,
		publisher: pub,
		log:       log,
	}
}

func (s *OrderService) ListUnpaid(ctx context.Context, accountID string) ([]domain.OrderLine, error) {
	return s.repo.ListUnpaidOrders(ctx, accountID)
}

// DeleteOrder removes an order line. Students may only delete their own
// unpaid orders. Staff may delete any order; deleting a paid order that has
// not been fulfilled refunds its line total back to the account, while a
// fulfilled one is removed with no refund.
func (s *OrderService) DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error {
	now := s.clock.Now()
	var record domain.TransactionRecord

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}

		if !actor.CanManage() {
			if order.AccountID != actor.AccountID || order.PaymentStatus != domain.PaymentStatusUnpaid {
				return domain.ErrOrderNotFound
			}
			return s.repo.DeleteOrder(txCtx, orderID)
		}

		refundable := order.PaymentStatus == domain.PaymentStatusPaid &&
			order.FulfillmentStatus == domain.FulfillmentStatusPending
		if !refundable {
			return s.repo.DeleteOrder(txCtx, orderID)
		}

		account, err := s.repo.GetAccountForUpdate(txCtx, order.AccountID)
		if err != nil {
			return err
		}

		amount := roundToUnits(order.LineTotal)
		if err := s.repo.UpdateAccountBalance(txCtx, account.ID, account.Balance+amount); err != nil {
			return err
		}
		if err := s.repo.DeleteOrder(txCtx, orderID); err != nil {
			return err
		}

		record = domain.TransactionRecord{
			ID:          newID(),
			AccountID:   account.ID,
			Kind:        domain.TransactionKindRefund,
			Amount:      order.LineTotal.Round(0),
			Description: fmt.Sprintf("Refund for %s", order.ItemName),
			CreatedAt:   now,
		}
		if err := s.repo.CreateTransaction(txCtx, record); err != nil {
			return err
		}

		if s.log != nil {
			s.log.WithFields(logrus.Fields{
				"order_id":   orderID,
				"account_id": account.ID,
				"amount":     amount,
			}).Info("refunded unfulfilled paid order on delete")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if record.ID != "" {
		publishTransaction(s.publisher, s.log, record)
	}
	return nil
}

// MarkCompleted flips an order's fulfillment status. Marking an order that is
// already completed is a no-op.
func (s *OrderService) MarkCompleted(ctx context.Context, actor domain.Actor, orderID string) error {
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	return s.repo.MarkOrderCompleted(ctx, orderID)
}

// PaidOrderGroup is one student's paid orders for the fulfillment board.
type PaidOrderGroup struct {
	StudentName string
	AccountID   string
	Orders      []domain.OrderLine
}

// ListPaidOrders groups paid orders by student, completed orders first within
// each group.
func (s *OrderService) ListPaidOrders(ctx context.Context, actor domain.Actor) ([]PaidOrderGroup, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}

	rows, err := s.repo.ListPaidOrders(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	groups := make([]PaidOrderGroup, 0)
	for _, row := range rows {
		i, ok := index[row.Line.AccountID]
		if !ok {
			i = len(groups)
			index[row.Line.AccountID] = i
			groups = append(groups, PaidOrderGroup{
				StudentName: row.StudentName,
				AccountID:   row.Line.AccountID,
			})
		}
		groups[i].Orders = append(groups[i].Orders, row.Line)
	}

	for i := range groups {
		orders := groups[i].Orders
		sort.SliceStable(orders, func(a, b int) bool {
			return orders[a].FulfillmentStatus == domain.FulfillmentStatusCompleted &&
				orders[b].FulfillmentStatus != domain.FulfillmentStatusCompleted
		})
	}
	return groups, nil
}
