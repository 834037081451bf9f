package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundRow is one line of a fund's history: the entry's signed amount in
// the fund's own currency and the running balance after it. Sign follows
// the category convention: assets and expenses grow on the debit side,
// liabilities, equities and revenues on the credit side.
type FundRow struct {
	Transaction int
	Date        time.Time
	Amount      decimal.Decimal
	Rate        *decimal.Decimal
	Balance     decimal.Decimal
	Memo        string
	Payee       string
}

// LoadFund returns the fund's entries in ledger order with running
// balances. An unknown code is a user-facing error, not a crash.
func (b *Book) LoadFund(code string) ([]FundRow, error) {
	f, err := b.Chart.Fund(code)
	if err != nil {
		return nil, err
	}

	debitPositive := f.Category == Asset || f.Category == Expense
	balance := decimal.Zero
	var rows []FundRow
	for e := range b.Ledger.EntriesFor(code) {
		amount := e.Debit.Sub(e.Credit)
		if !debitPositive {
			amount = amount.Neg()
		}
		amount = RoundCents(amount)
		balance = balance.Add(amount)
		rows = append(rows, FundRow{
			Transaction: e.Transaction,
			Date:        e.Date,
			Amount:      amount,
			Rate:        e.Rate,
			Balance:     balance,
			Memo:        e.Memo,
			Payee:       e.Payee,
		})
	}
	return rows, nil
}

func (b *Book) fundBalance(code string) (decimal.Decimal, error) {
	rows, err := b.LoadFund(code)
	if err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return rows[len(rows)-1].Balance, nil
}

// BalanceLine is one fund's standing on the balance sheet. Balance is
// the last running balance in the fund's own currency; BaseBalance is
// the base-currency equivalent accumulated from entry base amounts. For
// asset funds held in another currency, Currency and LastDate describe
// the informational currency breakdown.
type BalanceLine struct {
	Code        string
	Name        string
	Balance     decimal.Decimal
	BaseBalance decimal.Decimal
	Currency    string
	LastDate    time.Time
}

// BalanceSheet is the five-category summary derived from the ledger.
type BalanceSheet struct {
	Assets      []BalanceLine
	Liabilities []BalanceLine
	Equities    []BalanceLine
	Revenues    []BalanceLine
	Expenses    []BalanceLine
}

// BalanceSheet summarizes every fund in the chart: the last running
// balance from LoadFund, or zero when the fund has no entries yet.
func (b *Book) BalanceSheet() (*BalanceSheet, error) {
	sheet := &BalanceSheet{}
	targets := map[Category]*[]BalanceLine{
		Asset:     &sheet.Assets,
		Liability: &sheet.Liabilities,
		Equity:    &sheet.Equities,
		Revenue:   &sheet.Revenues,
		Expense:   &sheet.Expenses,
	}

	for _, cat := range categories {
		for _, f := range b.Chart.Funds(cat) {
			rows, err := b.LoadFund(f.Code)
			if err != nil {
				return nil, err
			}
			line := BalanceLine{Code: f.Code, Name: f.Name, Currency: f.Currency}
			if len(rows) > 0 {
				line.Balance = rows[len(rows)-1].Balance
				line.LastDate = rows[len(rows)-1].Date
			}
			line.BaseBalance = b.baseBalance(f)
			*targets[cat] = append(*targets[cat], line)
		}
	}
	return sheet, nil
}

// baseBalance accumulates the fund's entry base amounts with the
// category's sign convention.
func (b *Book) baseBalance(f *Fund) decimal.Decimal {
	debitPositive := f.Category == Asset || f.Category == Expense
	total := decimal.Zero
	for e := range b.Ledger.EntriesFor(f.Code) {
		signed := e.Base
		if e.Credit.Sign() != 0 {
			signed = signed.Neg()
		}
		if !debitPositive {
			signed = signed.Neg()
		}
		total = total.Add(signed)
	}
	return total
}

func sumBase(lines []BalanceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.BaseBalance)
	}
	return total
}

// AssetsTotal is the base-currency total of all asset funds.
func (s *BalanceSheet) AssetsTotal() decimal.Decimal {
	return sumBase(s.Assets)
}

// LiabilitiesAndEquityTotal is the base-currency total of the other four
// categories: liabilities plus equities plus net income. Expense funds
// report debit-positive, so they reduce the total. On a fully balanced
// ledger it equals AssetsTotal.
func (s *BalanceSheet) LiabilitiesAndEquityTotal() decimal.Decimal {
	return sumBase(s.Liabilities).
		Add(sumBase(s.Equities)).
		Add(sumBase(s.Revenues)).
		Sub(sumBase(s.Expenses))
}
