package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicTransactionRecorded carries one event per committed ledger record.
const TopicTransactionRecorded = "transaction.recorded"

// Publisher pushes domain events to an external stream. Publishing is
// best-effort: it runs after the owning transaction has committed and its
// failure never affects the operation's result.
type Publisher interface {
	Publish(topic string, event any) error
}

type TransactionRecorded struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id,omitempty"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(string, any) error { return nil }
