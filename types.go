package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a fund into one of the five balance-sheet groups.
type Category int

const (
	Asset Category = iota
	Liability
	Equity
	Revenue
	Expense
)

// categories in balance-sheet order.
var categories = [5]Category{Asset, Liability, Equity, Revenue, Expense}

func (c Category) String() string {
	switch c {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Equity:
		return "equity"
	case Revenue:
		return "revenue"
	case Expense:
		return "expense"
	}
	return "unknown"
}

// leadingDigit is the first digit a fund code in this category must have.
func (c Category) leadingDigit() byte {
	switch c {
	case Asset:
		return '1'
	case Liability:
		return '2'
	case Equity:
		return '3'
	case Revenue:
		return '4'
	case Expense:
		return '6'
	}
	return 0
}

var ErrBadFundCode = errors.New("fund code must be four digits starting with 1, 2, 3, 4 or 6")

// CategoryForCode derives the category from a fund code's leading digit.
// The code must be four digits; 5 is not a valid leading digit.
func CategoryForCode(code string) (Category, error) {
	if len(code) != 4 {
		return 0, fmt.Errorf("%q: %w", code, ErrBadFundCode)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return 0, fmt.Errorf("%q: %w", code, ErrBadFundCode)
		}
	}
	for _, c := range categories {
		if code[0] == c.leadingDigit() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", code, ErrBadFundCode)
}

// Fund is one account bucket in the chart of accounts. Asset funds carry
// a currency and a rate-lot map; every other category carries the
// allocation percent and fixed amount used when distributing offerings.
type Fund struct {
	Code        string
	Name        string
	Description string
	Category    Category

	// Asset funds only.
	Currency string
	Lots     map[string]decimal.Decimal

	// Non-asset funds only. Percent is a whole number (10 means 10%).
	Percent decimal.Decimal
	Amount  decimal.Decimal
}

// FullName returns the display form "code name".
func (f *Fund) FullName() string {
	return fmt.Sprintf("%s %s", f.Code, f.Name)
}

// Amount is a posting amount. A nil Rate means base currency; otherwise
// Value is in the fund's own currency and Rate converts it to base.
type Amount struct {
	Value decimal.Decimal
	Rate  *decimal.Decimal
}

// BaseAmount wraps a base-currency value.
func BaseAmount(v decimal.Decimal) Amount {
	return Amount{Value: v}
}

// ForeignAmount wraps a foreign-currency value with its exchange rate.
func ForeignAmount(v, rate decimal.Decimal) Amount {
	return Amount{Value: v, Rate: &rate}
}

// InBase converts the amount to base currency, quantized at the cent.
func (a Amount) InBase() decimal.Decimal {
	if a.Rate != nil {
		return RoundCents(a.Value.Mul(*a.Rate))
	}
	return RoundCents(a.Value)
}

// Posting pairs a fund code with an amount on one side of a transaction.
type Posting struct {
	Fund   string
	Amount Amount
}

// Entry is one immutable ledger record. Exactly one of Debit and Credit
// is non-zero; both are in the fund's own currency, Base is the
// base-currency equivalent. Rate is present only on foreign entries.
type Entry struct {
	Transaction int
	Date        time.Time
	Fund        string
	Base        decimal.Decimal
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Rate        *decimal.Decimal
	Memo        string
	Payee       string
}
