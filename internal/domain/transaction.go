package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindPayment TransactionKind = "Payment"
	TransactionKindTopUp   TransactionKind = "Top-up"
	TransactionKindRefund  TransactionKind = "Refund"
)

// TransactionRecord is an append-only audit entry for a balance-affecting
// event. Amount is signed: debits negative, credits positive. Records are
// never updated or deleted. AccountID may be empty for system-level entries.
type TransactionRecord struct {
	ID          string
	AccountID   string
	Kind        TransactionKind
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}
