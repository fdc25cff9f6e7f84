package models

import (
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. It is written to JSON as a number that
// keeps its scale, so 25.00 stays 25.00 on the wire.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MustMoney parses s and panics on malformed input. Intended for constants and tests.
func MustMoney(s string) Money {
	return Money{Decimal: decimal.RequireFromString(s)}
}

// Times multiplies by an integer quantity without any rounding.
func (m Money) Times(n int) Money {
	return Money{Decimal: m.Decimal.Mul(decimal.NewFromInt(int64(n)))}
}

func (m Money) String() string {
	if exp := m.Exponent(); exp < 0 {
		return m.StringFixed(-exp)
	}
	return m.Decimal.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both 19.99 and "19.99".
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
