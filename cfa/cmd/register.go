package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/fatih/color"
	ledger "github.com/joeree/Church-Financial-Accountability"
	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	startString string
	endString   string
	columnWidth int
	columnWide  bool
)

var (
	colorNeg   = color.New(color.FgRed)
	colorFund  = color.New(color.FgBlue)
	colorTitle = color.New(color.Bold)
)

// dateRange parses the begin/end flags, permissively.
func dateRange() (time.Time, time.Time, error) {
	parsedStart, startErr := dateparse.ParseAny(startString)
	parsedEnd, endErr := dateparse.ParseAny(endString)
	if startErr != nil || endErr != nil {
		return time.Time{}, time.Time{}, errors.New("unable to parse start or end date string argument")
	}
	// include end dates' transactions too
	return parsedStart, parsedEnd.Add(time.Second), nil
}

func outputColumns() int {
	if columnWidth == 80 && columnWide {
		columnWidth = 132
		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			if tw, _, err := term.GetSize(fd); err == nil {
				columnWidth = tw
			}
		}
	}
	return columnWidth
}

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// registerCmd prints one fund's history with running balances.
var registerCmd = &cobra.Command{
	Use:   "register <fund-code>",
	Args:  cobra.ExactArgs(1),
	Short: "Print a fund's entries and running balance",
	RunE: func(_ *cobra.Command, args []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)

		begin, end, err := dateRange()
		if err != nil {
			return err
		}
		rows, err := book.LoadFund(args[0])
		if err != nil {
			return err
		}

		columns := outputColumns()
		// date, txn and two 12-width amount columns; memo gets the rest
		memoWidth := columns - 10 - 6 - (12 * 2) - 4
		if memoWidth < 8 {
			memoWidth = 8
		}

		buf := bufio.NewWriter(os.Stdout)
		colorTitle.Fprintln(buf, settings.Chart.FullName(args[0]))
		for _, row := range rows {
			if row.Date.Before(begin) || !row.Date.Before(end) {
				continue
			}
			memo := row.Memo
			if row.Payee != "" {
				memo = memo + " ; " + row.Payee
			}
			if utf8.RuneCountInString(memo) > memoWidth {
				memo = string([]rune(memo)[:memoWidth])
			}
			amountStr := row.Amount.StringFixed(2)
			if row.Rate != nil {
				amountStr += " @ " + row.Rate.String()
			}

			fmt.Fprintf(buf, "%s (%4d) ", row.Date.Format(ledger.DateLayout), row.Transaction)
			colorFund.Fprintf(buf, "%-*s", memoWidth, memo)
			writeAmount(buf, row.Amount, fmt.Sprintf(" %12s", amountStr))
			writeAmount(buf, row.Balance, fmt.Sprintf(" %12s", row.Balance.StringFixed(2)))
			buf.WriteString("\n")
		}
		return buf.Flush()
	},
}

func writeAmount(buf *bufio.Writer, amount decimal.Decimal, formatted string) {
	if amount.Sign() < 0 {
		colorNeg.Fprint(buf, formatted)
		return
	}
	buf.WriteString(formatted)
}

// printCmd prints the journal in ledger file format.
var printCmd = &cobra.Command{
	Use:   "print [fund-code]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Print transactions in journal file format",
	RunE: func(_ *cobra.Command, args []string) error {
		_, journal, err := loadState()
		if err != nil {
			return err
		}
		begin, end, err := dateRange()
		if err != nil {
			return err
		}

		filtered := ledger.NewLedger()
		source := journal.Entries()
		if len(args) == 1 {
			source = journal.EntriesFor(args[0])
		}
		for e := range source {
			if e.Date.Before(begin) || !e.Date.Before(end) {
				continue
			}
			filtered.Append(e)
		}
		return ledger.WriteJournal(os.Stdout, filtered)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(printCmd)

	startDate := time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local)
	endDate := time.Now().Add(1<<63 - 1)
	for _, c := range []*cobra.Command{registerCmd, printCmd} {
		c.Flags().StringVarP(&startString, "begin-date", "b", startDate.Format("2006/01/02"), "Begin date of transaction processing.")
		c.Flags().StringVarP(&endString, "end-date", "e", endDate.Format("2006/01/02"), "End date of transaction processing.")
		c.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
		c.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
	}
}
