package ledger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"
)

// Journal text format: blank-line separated transaction blocks.
//
//	15/08/2026 (12) Sunday offering ; Ivan Petrenko
//	    1010  100.00
//	    4010  -100.00
//	    1020  50.00 @ 1.20
//
// The header carries the date, the transaction number in parentheses,
// the memo and, after a semicolon, the optional payee. Posting lines are
// the fund code and the own-currency amount, debits positive and credits
// negative, with an optional @ exchange rate. Standalone lines starting
// with ; are comments.

// Regex groups:
// 1: fund code (4 digits, optional sub-account suffix)
// 2: signed amount
// 3: @ exchange rate
var postingRE = regexp.MustCompile(
	`^(?P<code>\d{4}(?:\.\d+)*)` +
		`(?:\s{2,}|\t)\s*` +
		`(?P<amount>-?\d+(?:\.\d+)?)` +
		`(?:\s*@\s*(?P<rate>\d+(?:\.\d+)?))?$`,
)

// ParseJournalFile parses a journal file into a ledger.
func ParseJournalFile(filename string) (*Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseJournal(filename, f)
}

// ParseJournal parses journal text into a ledger.
func ParseJournal(r io.Reader) (*Ledger, error) {
	return parseJournal("", r)
}

type parser struct {
	scanner *linescanner

	strPrevDate string
	prevDate    time.Time
	prevDateErr error
}

func parseJournal(filename string, r io.Reader) (*Ledger, error) {
	lp := parser{scanner: newLineScanner(filename, r)}
	l := NewLedger()

	for lp.scanner.Scan() {
		trimmedLine := strings.TrimSpace(lp.scanner.Text())

		// Skip empty lines and standalone comments between blocks.
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, ";") {
			continue
		}

		before, after, split := strings.Cut(trimmedLine, " ")
		if !split {
			return nil, lp.errorf("unable to parse header line: %s", trimmedLine)
		}
		entries, err := lp.parseTransaction(before, after)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: unable to parse transaction: %w",
				lp.scanner.Name(), lp.scanner.LineNumber(), err)
		}
		for _, e := range entries {
			l.Append(e)
		}
	}
	return l, nil
}

func (lp *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", lp.scanner.Name(), lp.scanner.LineNumber(),
		fmt.Sprintf(format, args...))
}

// parseDate accepts the strict DD/MM/YYYY layout and falls back to a
// permissive parse for journals written by other tools.
func (lp *parser) parseDate(dateString string) (time.Time, error) {
	// seen before, skip parse
	if lp.strPrevDate == dateString {
		return lp.prevDate, lp.prevDateErr
	}

	transDate, err := CheckDate(dateString)
	if err != nil {
		transDate, err = date.Parse(dateString)
		if err != nil {
			err = fmt.Errorf("unable to parse date(%s): %w", dateString, err)
		}
	}

	// maybe next date is same
	lp.strPrevDate = dateString
	lp.prevDate = transDate
	lp.prevDateErr = err

	return transDate, err
}

func (lp *parser) parseTransaction(dateString, headerRest string) ([]Entry, error) {
	transDate, err := lp.parseDate(dateString)
	if err != nil {
		return nil, err
	}

	txn, memo, payee, err := parseHeaderRest(headerRest)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for lp.scanner.Scan() {
		trimmedLine := strings.TrimSpace(lp.scanner.Text())
		if len(trimmedLine) == 0 {
			break
		}
		if strings.HasPrefix(trimmedLine, ";") {
			continue
		}

		e, err := parsePosting(trimmedLine)
		if err != nil {
			return nil, err
		}
		e.Transaction = txn
		e.Date = transDate
		e.Memo = memo
		e.Payee = payee
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("transaction %d has no postings", txn)
	}
	return entries, nil
}

// parseHeaderRest splits "(txn#) memo ; payee".
func parseHeaderRest(s string) (txn int, memo, payee string, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return 0, "", "", fmt.Errorf("missing transaction number in header: %s", s)
	}
	closeIdx := strings.Index(s, ")")
	if closeIdx < 0 {
		return 0, "", "", fmt.Errorf("missing transaction number in header: %s", s)
	}
	txn, err = strconv.Atoi(s[1:closeIdx])
	if err != nil || txn < 1 {
		return 0, "", "", fmt.Errorf("bad transaction number in header: %s", s)
	}

	memo = strings.TrimSpace(s[closeIdx+1:])
	if commentIdx := strings.Index(memo, ";"); commentIdx >= 0 {
		payee = strings.TrimSpace(memo[commentIdx+1:])
		memo = strings.TrimSpace(memo[:commentIdx])
	}
	return txn, memo, payee, nil
}

func parsePosting(trimmedLine string) (Entry, error) {
	m := postingRE.FindStringSubmatch(trimmedLine)
	if m == nil {
		return Entry{}, fmt.Errorf("invalid posting: %q", trimmedLine)
	}

	e := Entry{Fund: m[1]}

	value, err := decimal.NewFromString(m[2])
	if err != nil {
		return Entry{}, err
	}
	amount := Amount{Value: value.Abs()}
	if m[3] != "" {
		rate, rerr := decimal.NewFromString(m[3])
		if rerr != nil {
			return Entry{}, rerr
		}
		amount.Rate = &rate
	}

	e.Base = amount.InBase()
	e.Rate = amount.Rate
	if value.Sign() < 0 {
		e.Credit = RoundCents(amount.Value)
	} else {
		e.Debit = RoundCents(amount.Value)
	}
	return e, nil
}
