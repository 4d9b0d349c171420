package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IndexSnapshot represents one daily level of a market index (S&P 500, EAFE)
// Value is kept as a decimal because the store holds it as NUMERIC
type IndexSnapshot struct {
	Date  time.Time
	Value decimal.Decimal // Index level at the close of Date
}

// IsPositive reports whether the level can be used as a ratio term
func (s IndexSnapshot) IsPositive() bool {
	return s.Value.GreaterThan(decimal.Zero)
}
