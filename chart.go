package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateFund = errors.New("account number is already in use")
	ErrNotAFund      = errors.New("not a fund number")
	ErrNotAssetFund  = errors.New("not an asset fund")
)

// Chart is the catalog of funds, grouped by category. It also owns the
// alternate-currency rate lots of its asset funds.
type Chart struct {
	BaseCurrency string

	funds map[Category]map[string]*Fund
}

// NewChart returns an empty chart reporting in the given base currency.
func NewChart(baseCurrency string) *Chart {
	c := &Chart{
		BaseCurrency: baseCurrency,
		funds:        make(map[Category]map[string]*Fund, len(categories)),
	}
	for _, cat := range categories {
		c.funds[cat] = make(map[string]*Fund)
	}
	return c
}

// AddFund creates a fund, deriving its category from the code's leading
// digit. Asset funds take no percent or amount; they get an empty
// rate-lot map and the chart's base currency until edited. Percent is a
// whole number (10 means 10%).
func (c *Chart) AddFund(code, name string, percent, amount decimal.Decimal) (*Fund, error) {
	cat, err := CategoryForCode(code)
	if err != nil {
		return nil, err
	}
	if _, exists := c.funds[cat][code]; exists {
		return nil, fmt.Errorf("%s: %w", code, ErrDuplicateFund)
	}

	f := &Fund{Code: code, Name: name, Category: cat}
	if cat == Asset {
		if !percent.IsZero() || !amount.IsZero() {
			return nil, fmt.Errorf("asset fund %s cannot carry allocation settings", code)
		}
		f.Currency = c.BaseCurrency
		f.Lots = make(map[string]decimal.Decimal)
	} else {
		f.Percent = percent
		f.Amount = amount
	}
	c.funds[cat][code] = f
	return f, nil
}

// Fund looks a fund up by code in any category.
func (c *Chart) Fund(code string) (*Fund, error) {
	cat, err := CategoryForCode(code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", code, ErrNotAFund)
	}
	f, ok := c.funds[cat][code]
	if !ok {
		return nil, fmt.Errorf("%s: %w", code, ErrNotAFund)
	}
	return f, nil
}

// FullName returns "code name" for display, or the bare code when the
// fund is unknown.
func (c *Chart) FullName(code string) string {
	f, err := c.Fund(code)
	if err != nil {
		return code
	}
	return f.FullName()
}

// Funds returns the funds of one category, codes ascending.
func (c *Chart) Funds(cat Category) []*Fund {
	out := make([]*Fund, 0, len(c.funds[cat]))
	for _, f := range c.funds[cat] {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b *Fund) int {
		if a.Code < b.Code {
			return -1
		}
		if a.Code > b.Code {
			return 1
		}
		return 0
	})
	return out
}

// nonAssetFunds walks liabilities, equities, revenues and expenses in
// catalog order. Distribution results depend on this order.
func (c *Chart) nonAssetFunds() []*Fund {
	var out []*Fund
	for _, cat := range categories[1:] {
		out = append(out, c.Funds(cat)...)
	}
	return out
}

// FundsWithAmount returns non-asset funds configured with a positive
// fixed allocation amount, in catalog order.
func (c *Chart) FundsWithAmount() []*Fund {
	var out []*Fund
	for _, f := range c.nonAssetFunds() {
		if f.Amount.IsPositive() {
			out = append(out, f)
		}
	}
	return out
}

// FundsWithPercent returns non-asset funds configured with a positive
// allocation percentage, in catalog order.
func (c *Chart) FundsWithPercent() []*Fund {
	var out []*Fund
	for _, f := range c.nonAssetFunds() {
		if f.Percent.IsPositive() {
			out = append(out, f)
		}
	}
	return out
}

// RateKey is the canonical lot key for an exchange rate.
func RateKey(rate decimal.Decimal) string {
	return rate.String()
}

// CreditLot adds a foreign-currency amount to the asset fund's lot for
// the given rate, creating the lot if absent.
func (c *Chart) CreditLot(code string, amount, rate decimal.Decimal) error {
	f, err := c.assetFund(code)
	if err != nil {
		return err
	}
	key := RateKey(rate)
	f.Lots[key] = f.Lots[key].Add(amount)
	return nil
}

// DebitLot subtracts a foreign-currency amount from the asset fund's lot
// for the given rate. Without force it succeeds only when the lot exists
// and stays non-negative; the false return is the caller's cue to apply
// the override policy. With force the subtraction always happens, and
// the lot may go (or be created) negative.
func (c *Chart) DebitLot(code string, amount, rate decimal.Decimal, force bool) (bool, error) {
	f, err := c.assetFund(code)
	if err != nil {
		return false, err
	}
	key := RateKey(rate)
	lot, exists := f.Lots[key]
	if exists && lot.Sub(amount).Sign() >= 0 {
		f.Lots[key] = lot.Sub(amount)
		return true, nil
	}
	if !force {
		return false, nil
	}
	f.Lots[key] = lot.Sub(amount)
	return true, nil
}

func (c *Chart) assetFund(code string) (*Fund, error) {
	f, err := c.Fund(code)
	if err != nil {
		return nil, err
	}
	if f.Category != Asset {
		return nil, fmt.Errorf("%s: %w", code, ErrNotAssetFund)
	}
	return f, nil
}
