package ledger

import "github.com/shopspring/decimal"

// centPlaces is the precision of base-currency amounts.
const centPlaces = 2

var oneHundred = decimal.NewFromInt(100)

// RoundCents quantizes an amount at the cent boundary, rounding
// half-cents away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(centPlaces)
}

// percentOf applies a whole-number percentage (10 meaning 10%) to an
// amount and quantizes the result at the cent.
func percentOf(amount, wholePercent decimal.Decimal) decimal.Decimal {
	return RoundCents(amount.Mul(wholePercent.Div(oneHundred)))
}
