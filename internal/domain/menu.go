package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry. The settlement core treats the catalog as
// read-only; prices are captured onto order lines at order time.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Available   bool
	CreatedAt   time.Time
}
