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

type AccountRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateAccount(ctx context.Context, account domain.Account) error
	GetAccount(ctx context.Context, accountID string) (domain.Account, error)
	GetAccountForUpdate(ctx context.Context, accountID string) (domain.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID string, balance int64) error
	SetAccountFrozen(ctx context.Context, accountID string, frozen bool) error
	ListStudentAccounts(ctx context.Context) ([]domain.Account, error)
	CreateTransaction(ctx context.Context, rec domain.TransactionRecord) error
	ListTransactions(ctx context.Context) ([]domain.TransactionRecord, error)
}

// AccountService owns account administration: enrollment, top-ups, the
// frozen flag and the ledger views. Top-ups are the only credit path besides
// refunds, and both go through the same row lock as settlement.
type AccountService struct {
	repo      AccountRepository
	clock     clock.Clock
	publisher events.Publisher
	log       *logrus.Logger
}

func NewAccountService(repo AccountRepository, clk clock.Clock, pub events.Publisher, log *logrus.Logger) *AccountService {
	return &AccountService{
		repo:      repo,
		clock:     clk,
		publisher: pub,
		log:       log,
	}
}

type EnrollStudentInput struct {
	Name string
}

// EnrollStudent creates a student account with a zero, unfrozen balance.
func (s *AccountService) EnrollStudent(ctx context.Context, actor domain.Actor, in EnrollStudentInput) (domain.Account, error) {
	if !actor.IsAdmin() {
		return domain.Account{}, domain.ErrForbidden
	}
	if in.Name == "" {
		return domain.Account{}, domain.ErrNameRequired
	}

	account := domain.Account{
		ID:        newID(),
		Name:      in.Name,
		Kind:      domain.AccountKindStudent,
		Balance:   0,
		Frozen:    false,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

type TopUpInput struct {
	AccountID string
	Amount    int64
}

// TopUp credits a student's balance and appends the matching ledger record
// atomically. Frozen cards cannot be topped up.
func (s *AccountService) TopUp(ctx context.Context, actor domain.Actor, in TopUpInput) (domain.Account, error) {
	if !actor.IsAdmin() {
		return domain.Account{}, domain.ErrForbidden
	}
	if in.Amount <= 0 {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var result domain.Account
	var record domain.TransactionRecord

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		account, err := s.repo.GetAccountForUpdate(txCtx, in.AccountID)
		if err != nil {
			return err
		}
		if account.Frozen {
			return domain.ErrAccountFrozen
		}

		account.Balance += in.Amount
		if err := s.repo.UpdateAccountBalance(txCtx, account.ID, account.Balance); err != nil {
			return err
		}

		record = domain.TransactionRecord{
			ID:          newID(),
			AccountID:   account.ID,
			Kind:        domain.TransactionKindTopUp,
			Amount:      decimal.NewFromInt(in.Amount),
			Description: fmt.Sprintf("Top-up for %s", account.Name),
			CreatedAt:   now,
		}
		if err := s.repo.CreateTransaction(txCtx, record); err != nil {
			return err
		}

		result = account
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	publishTransaction(s.publisher, s.log, record)
	return result, nil
}

// SetFrozen freezes or unfreezes a card. Frozen accounts may not spend or
// receive top-ups until unfrozen.
func (s *AccountService) SetFrozen(ctx context.Context, actor domain.Actor, accountID string, frozen bool) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.SetAccountFrozen(ctx, accountID, frozen)
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	return s.repo.GetAccount(ctx, accountID)
}

func (s *AccountService) ListBalances(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListStudentAccounts(ctx)
}

type LedgerSummary struct {
	Records  []domain.TransactionRecord
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
}

// ListTransactions returns the full ledger newest-first with running totals
// of credits and debits.
func (s *AccountService) ListTransactions(ctx context.Context, actor domain.Actor) (LedgerSummary, error) {
	if !actor.IsAdmin() {
		return LedgerSummary{}, domain.ErrForbidden
	}

	records, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return LedgerSummary{}, err
	}

	summary := LedgerSummary{
		Records:  records,
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	for _, rec := range records {
		if rec.Amount.IsPositive() {
			summary.TotalIn = summary.TotalIn.Add(rec.Amount)
		} else {
			summary.TotalOut = summary.TotalOut.Add(rec.Amount.Abs())
		}
	}
	return summary, nil
}
