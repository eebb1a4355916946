package app

import "github.com/shopspring/decimal"

// roundToUnits converts a decimal amount to whole balance units, rounding the
// aggregate half-up. Settlement and refunds round the summed total once, never
// per line.
func roundToUnits(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
