package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "pending"
	FulfillmentStatusCompleted FulfillmentStatus = "completed"
)

// OrderLine is one cart line persisted against a student. LineTotal is
// price times quantity captured at order time; later catalog price changes
// do not touch it. PaymentStatus moves unpaid to paid exactly once, via
// settlement.
type OrderLine struct {
	ID                string
	AccountID         string
	MenuItemID        string
	ItemName          string
	Quantity          int
	LineTotal         decimal.Decimal
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	CreatedAt         time.Time
}

// PaidOrder is an order line joined with the owning student's name, for the
// staff fulfillment view.
type PaidOrder struct {
	Line        OrderLine
	StudentName string
}

// CartEntry is one raw {item_id, quantity} pair from a submitted cart.
type CartEntry struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
