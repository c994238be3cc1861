// Package format renders amounts for display under a negative-number policy.
package format

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// Amounts formats decimals with two places and thousands grouping.
type Amounts struct {
	negative model.NegativeFormat
	money    *money.Formatter
}

// New returns a formatter applying the given negative format. An empty
// format means MINUS.
func New(negative model.NegativeFormat) Amounts {
	if negative == "" {
		negative = model.NegativeMinus
	}
	return Amounts{
		negative: negative,
		money:    money.NewFormatter(2, ".", ",", "", "1"),
	}
}

// Negative returns the policy in effect.
func (a Amounts) Negative() model.NegativeFormat {
	return a.negative
}

// Amount formats d, e.g. "1,234.50", "-1,234.50" or "(1,234.50)". Values
// that round to zero carry no sign.
func (a Amounts) Amount(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	if cents >= 0 {
		return a.money.Format(cents)
	}
	s := a.money.Format(-cents)
	if a.negative == model.NegativeBrackets {
		return "(" + s + ")"
	}
	return "-" + s
}

// Balance formats a signed account balance as an unsigned amount with its
// side, e.g. "1,000.00 Dr". Zero balances have no side.
func (a Amounts) Balance(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	switch {
	case cents > 0:
		return a.money.Format(cents) + " Dr"
	case cents < 0:
		return a.money.Format(-cents) + " Cr"
	default:
		return a.money.Format(0)
	}
}

// Quantity formats a stock quantity without grouping or trailing zeros.
func Quantity(d decimal.Decimal) string {
	return d.String()
}
