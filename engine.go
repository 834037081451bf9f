package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoPostings        = errors.New("transaction has no postings")
	ErrManyToMany        = errors.New("please separate this request into multiple transactions")
	ErrUnbalanced        = errors.New("debits and credits do not equal each other")
	ErrEmptyMemo         = errors.New("memo must not be empty")
	ErrReservedText      = errors.New("memo and payee may not contain ';' or line breaks")
	ErrNonPositiveAmount = errors.New("amounts must be positive")
	ErrWrongCategory     = errors.New("fund category not allowed in this transaction")
	ErrUnexpectedRate    = errors.New("exchange rate not allowed on this side")
	ErrExchangeShape     = errors.New("exchanges are limited to two currencies")
	ErrBothSidesRated    = errors.New("only one side of an exchange may carry an exchange rate")
)

// InsufficientFundsError reports a fund or rate lot that would be
// overdrawn. It is recoverable: the caller may repeat the call with
// force set to post anyway.
type InsufficientFundsError struct {
	Fund      string
	Rate      *decimal.Decimal
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	if e.Rate != nil {
		return fmt.Sprintf("not enough in the %s account for rate %s: have %s, need %s",
			e.Fund, e.Rate.String(), e.Available.StringFixed(2), e.Requested.StringFixed(2))
	}
	return fmt.Sprintf("not enough money in fund %s: have %s, need %s",
		e.Fund, e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

// Allocation is one mandatory offering deduction: a named share credited
// to a fund before the remainder is distributed.
type Allocation struct {
	Name    string
	Fund    string
	Percent decimal.Decimal
}

// Book ties the chart of accounts and the ledger together and posts
// transactions. All five constructors share the same pipeline: validate
// shape, verify balance, check sufficiency, then append paired entries
// under a single transaction number.
type Book struct {
	Chart  *Chart
	Ledger *Ledger

	// Offering allocations, applied only when enabled.
	AllocationsEnabled bool
	Allocations        []Allocation
}

// NewBook wraps a chart and a ledger.
func NewBook(chart *Chart, l *Ledger) *Book {
	return &Book{Chart: chart, Ledger: l}
}

// AddIncome posts a receipt: one or many asset funds debited against one
// or many liability, equity or revenue funds credited. Many-to-many is
// rejected. Foreign-currency debits also credit the rate-lot register.
func (b *Book) AddIncome(date time.Time, debits, credits []Posting, memo, payee string) (int, error) {
	if err := checkShape(debits, credits, memo, payee); err != nil {
		return 0, err
	}
	if err := b.checkPostings(debits, true, Asset); err != nil {
		return 0, err
	}
	if err := b.checkPostings(credits, false, Liability, Equity, Revenue); err != nil {
		return 0, err
	}
	if !balanced(debits, credits) {
		return 0, ErrUnbalanced
	}

	n := b.Ledger.NextTransactionNumber()
	for _, p := range debits {
		if p.Amount.Rate != nil {
			if err := b.Chart.CreditLot(p.Fund, RoundCents(p.Amount.Value), *p.Amount.Rate); err != nil {
				return 0, err
			}
		}
		b.debit(n, date, p, memo, payee)
	}
	for _, p := range credits {
		b.credit(n, date, p, memo, payee)
	}
	return n, nil
}

// AddExpense posts a payment: asset funds credited (paying out) against
// liability, equity, revenue or asset funds debited. Foreign-currency
// credits draw the rate-lot register down; overdrawing a fund or a lot
// needs force.
func (b *Book) AddExpense(date time.Time, debits, credits []Posting, memo, payee string, force bool) (int, error) {
	if err := checkShape(debits, credits, memo, payee); err != nil {
		return 0, err
	}
	if err := b.checkPostings(debits, false, Liability, Equity, Revenue, Asset); err != nil {
		return 0, err
	}
	if err := b.checkPostings(credits, true, Asset); err != nil {
		return 0, err
	}
	if !balanced(debits, credits) {
		return 0, ErrUnbalanced
	}
	if err := b.checkSufficiency(credits, force); err != nil {
		return 0, err
	}

	n := b.Ledger.NextTransactionNumber()
	for _, p := range credits {
		if p.Amount.Rate != nil {
			// Sufficiency already settled above; apply the debit even
			// if the lot goes negative.
			if _, err := b.Chart.DebitLot(p.Fund, RoundCents(p.Amount.Value), *p.Amount.Rate, true); err != nil {
				return 0, err
			}
		}
		b.credit(n, date, p, memo, payee)
	}
	for _, p := range debits {
		b.debit(n, date, p, memo, payee)
	}
	return n, nil
}

// AddTransfer moves value between non-asset funds, one-to-many or
// many-to-one. No currency conversion; the source funds must be
// sufficient unless force is set.
func (b *Book) AddTransfer(date time.Time, from, to []Posting, memo string, force bool) (int, error) {
	if err := checkShape(from, to, memo, ""); err != nil {
		return 0, err
	}
	if err := b.checkPostings(from, false, Liability, Equity, Revenue, Expense); err != nil {
		return 0, err
	}
	if err := b.checkPostings(to, false, Liability, Equity, Revenue, Expense); err != nil {
		return 0, err
	}
	if !balanced(from, to) {
		return 0, ErrUnbalanced
	}
	if err := b.checkSufficiency(from, force); err != nil {
		return 0, err
	}

	n := b.Ledger.NextTransactionNumber()
	for _, p := range from {
		b.debit(n, date, p, memo, "")
	}
	for _, p := range to {
		b.credit(n, date, p, memo, "")
	}
	return n, nil
}

// AddExchange swaps value between exactly two asset funds. At most one
// side may carry an exchange rate; the credited fund must be sufficient
// unless force is set.
func (b *Book) AddExchange(date time.Time, debits, credits []Posting, memo, payee string, force bool) (int, error) {
	if len(debits) != 1 || len(credits) != 1 {
		return 0, ErrExchangeShape
	}
	if err := checkText(memo, payee); err != nil {
		return 0, err
	}
	if err := b.checkPostings(debits, true, Asset); err != nil {
		return 0, err
	}
	if err := b.checkPostings(credits, true, Asset); err != nil {
		return 0, err
	}
	deb, cred := debits[0], credits[0]
	if deb.Amount.Rate != nil && cred.Amount.Rate != nil {
		return 0, ErrBothSidesRated
	}
	if !balanced(debits, credits) {
		return 0, ErrUnbalanced
	}
	if err := b.checkSufficiency(credits, force); err != nil {
		return 0, err
	}

	n := b.Ledger.NextTransactionNumber()
	switch {
	case deb.Amount.Rate != nil:
		b.credit(n, date, cred, memo, payee)
		if err := b.Chart.CreditLot(deb.Fund, RoundCents(deb.Amount.Value), *deb.Amount.Rate); err != nil {
			return 0, err
		}
		b.debit(n, date, deb, memo, payee)
	case cred.Amount.Rate != nil:
		if _, err := b.Chart.DebitLot(cred.Fund, RoundCents(cred.Amount.Value), *cred.Amount.Rate, true); err != nil {
			return 0, err
		}
		b.credit(n, date, cred, memo, payee)
		b.debit(n, date, deb, memo, payee)
	default:
		b.debit(n, date, deb, memo, payee)
		b.credit(n, date, cred, memo, payee)
	}
	return n, nil
}

// AddOffering posts one or more currency receipts into asset funds, then
// distributes the base-currency total: the configured allocations first
// (when enabled), then funds with a fixed amount in catalog order, then
// funds with a percentage, each percentage computed off the same total
// remaining after all fixed amounts. Every entry shares the transaction
// number and memo of the receipts.
func (b *Book) AddOffering(date time.Time, receipts []Posting, memo string) (int, error) {
	if len(receipts) == 0 {
		return 0, ErrNoPostings
	}
	if err := checkText(memo, ""); err != nil {
		return 0, err
	}
	if err := b.checkPostings(receipts, true, Asset); err != nil {
		return 0, err
	}
	if b.AllocationsEnabled {
		for _, a := range b.Allocations {
			if _, err := b.Chart.Fund(a.Fund); err != nil {
				return 0, fmt.Errorf("allocation %s: %w", a.Name, err)
			}
		}
	}

	n := b.Ledger.NextTransactionNumber()
	operating := decimal.Zero
	for _, p := range receipts {
		if p.Amount.Rate != nil {
			if err := b.Chart.CreditLot(p.Fund, RoundCents(p.Amount.Value), *p.Amount.Rate); err != nil {
				return 0, err
			}
		}
		b.debit(n, date, p, memo, "")
		operating = operating.Add(p.Amount.InBase())
	}

	if b.AllocationsEnabled {
		// Each share is computed off the full operating total, then all
		// are deducted together.
		deducted := decimal.Zero
		for _, a := range b.Allocations {
			amt := percentOf(operating, a.Percent)
			b.credit(n, date, Posting{Fund: a.Fund, Amount: BaseAmount(amt)}, memo, "")
			deducted = deducted.Add(amt)
		}
		operating = operating.Sub(deducted)
	}

	for _, f := range b.Chart.FundsWithAmount() {
		if operating.Sub(f.Amount).IsPositive() {
			b.credit(n, date, Posting{Fund: f.Code, Amount: BaseAmount(f.Amount)}, memo, "")
			operating = operating.Sub(f.Amount)
		}
	}

	// Percentages are not chained: each applies to the same remainder
	// left after the fixed amounts.
	remainder := operating
	for _, f := range b.Chart.FundsWithPercent() {
		amt := percentOf(remainder, f.Percent)
		if amt.IsZero() {
			continue
		}
		b.credit(n, date, Posting{Fund: f.Code, Amount: BaseAmount(amt)}, memo, "")
	}
	return n, nil
}

func (b *Book) debit(n int, date time.Time, p Posting, memo, payee string) {
	b.Ledger.Append(Entry{
		Transaction: n,
		Date:        date,
		Fund:        p.Fund,
		Base:        p.Amount.InBase(),
		Debit:       RoundCents(p.Amount.Value),
		Rate:        p.Amount.Rate,
		Memo:        memo,
		Payee:       payee,
	})
}

func (b *Book) credit(n int, date time.Time, p Posting, memo, payee string) {
	b.Ledger.Append(Entry{
		Transaction: n,
		Date:        date,
		Fund:        p.Fund,
		Base:        p.Amount.InBase(),
		Credit:      RoundCents(p.Amount.Value),
		Rate:        p.Amount.Rate,
		Memo:        memo,
		Payee:       payee,
	})
}

// checkShape rejects empty sides, many-to-many shapes and bad text.
func checkShape(debits, credits []Posting, memo, payee string) error {
	if len(debits) == 0 || len(credits) == 0 {
		return ErrNoPostings
	}
	if len(debits) > 1 && len(credits) > 1 {
		return ErrManyToMany
	}
	return checkText(memo, payee)
}

// checkText rejects memo and payee values the journal file format cannot
// carry: the semicolon separates memo from payee in a header line, and
// entries are line-delimited.
func checkText(memo, payee string) error {
	if memo == "" {
		return ErrEmptyMemo
	}
	if strings.ContainsAny(memo, ";\n\r") || strings.ContainsAny(payee, ";\n\r") {
		return ErrReservedText
	}
	return nil
}

// checkPostings verifies each posting names a known fund of an allowed
// category and a positive amount, and that exchange rates appear only
// where allowed.
func (b *Book) checkPostings(ps []Posting, ratesAllowed bool, allowed ...Category) error {
	for _, p := range ps {
		f, err := b.Chart.Fund(p.Fund)
		if err != nil {
			return err
		}
		ok := false
		for _, cat := range allowed {
			if f.Category == cat {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%s (%s): %w", p.Fund, f.Category, ErrWrongCategory)
		}
		if !p.Amount.Value.IsPositive() {
			return fmt.Errorf("%s: %w", p.Fund, ErrNonPositiveAmount)
		}
		if p.Amount.Rate != nil {
			if !ratesAllowed {
				return fmt.Errorf("%s: %w", p.Fund, ErrUnexpectedRate)
			}
			if !p.Amount.Rate.IsPositive() {
				return fmt.Errorf("%s: %w", p.Fund, ErrNonPositiveAmount)
			}
		}
	}
	return nil
}

// balanced reports whether base-currency debit and credit totals match
// to the cent.
func balanced(debits, credits []Posting) bool {
	d := decimal.Zero
	for _, p := range debits {
		d = d.Add(p.Amount.InBase())
	}
	c := decimal.Zero
	for _, p := range credits {
		c = c.Add(p.Amount.InBase())
	}
	return d.Equal(c)
}

// checkSufficiency verifies that the funds being drawn down can cover
// their postings. Base-currency postings check the fund's running
// balance; foreign postings check the rate lot instead. With force the
// shortfall is logged and allowed.
func (b *Book) checkSufficiency(ps []Posting, force bool) error {
	for _, p := range ps {
		amt := RoundCents(p.Amount.Value)
		if p.Amount.Rate != nil {
			f, err := b.Chart.assetFund(p.Fund)
			if err != nil {
				return err
			}
			lot, exists := f.Lots[RateKey(*p.Amount.Rate)]
			if exists && lot.Sub(amt).Sign() >= 0 {
				continue
			}
			if !force {
				return &InsufficientFundsError{Fund: p.Fund, Rate: p.Amount.Rate, Available: lot, Requested: amt}
			}
			slog.Warn("rate lot overdrawn by override",
				"fund", p.Fund, "rate", p.Amount.Rate.String(),
				"available", lot.StringFixed(2), "requested", amt.StringFixed(2))
			continue
		}

		bal, err := b.fundBalance(p.Fund)
		if err != nil {
			return err
		}
		if bal.Sub(amt).Sign() >= 0 {
			continue
		}
		if !force {
			return &InsufficientFundsError{Fund: p.Fund, Available: bal, Requested: amt}
		}
		slog.Warn("fund overdrawn by override",
			"fund", p.Fund, "available", bal.StringFixed(2), "requested", amt.StringFixed(2))
	}
	return nil
}
