package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alfredxing/calc/compute"
	ledger "github.com/joeree/Church-Financial-Accountability"
	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	dateString   string
	memoString   string
	payeeString  string
	forcePost    bool
	debitSpecs   []string
	creditSpecs  []string
	receiptSpecs []string
)

// parseAmount reads a decimal, falling back to arithmetic expression
// evaluation for inputs like "(120+35)*2".
func parseAmount(s string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}
	val, err := compute.Evaluate(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to read amount %q: %w", s, err)
	}
	return decimal.NewFromFloat(val), nil
}

// parsePostingSpec reads "code:amount" or "code:amount@rate".
func parsePostingSpec(s string) (ledger.Posting, error) {
	code, rest, found := strings.Cut(s, ":")
	if !found {
		return ledger.Posting{}, fmt.Errorf("posting %q must look like code:amount[@rate]", s)
	}
	amountStr, rateStr, rated := strings.Cut(rest, "@")
	value, err := parseAmount(strings.TrimSpace(amountStr))
	if err != nil {
		return ledger.Posting{}, err
	}
	if !rated {
		return ledger.Posting{Fund: code, Amount: ledger.BaseAmount(value)}, nil
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(rateStr))
	if err != nil {
		return ledger.Posting{}, fmt.Errorf("unable to read exchange rate in %q: %w", s, err)
	}
	return ledger.Posting{Fund: code, Amount: ledger.ForeignAmount(value, rate)}, nil
}

func parsePostingSpecs(specs []string) ([]ledger.Posting, error) {
	out := make([]ledger.Posting, 0, len(specs))
	for _, s := range specs {
		p, err := parsePostingSpec(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// postWithOverride runs a posting attempt and, when it fails on
// insufficient funds in an interactive session, asks whether to continue
// anyway and retries with force.
func postWithOverride(post func(force bool) (int, error)) (int, error) {
	n, err := post(forcePost)
	var insufficient *ledger.InsufficientFundsError
	if err == nil || forcePost || !errors.As(err, &insufficient) {
		return n, err
	}
	if !confirmOverride(insufficient) {
		return 0, err
	}
	return post(true)
}

func confirmOverride(e *ledger.InsufficientFundsError) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s\nWould you like to continue anyway? [y/N] ", e.Error())
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func reportPosted(n int) {
	fmt.Printf("posted transaction %d\n", n)
}

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Record income: debit asset funds, credit liability, equity or revenue funds",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)

		date, err := ledger.CheckDate(dateString)
		if err != nil {
			return err
		}
		debits, err := parsePostingSpecs(debitSpecs)
		if err != nil {
			return err
		}
		credits, err := parsePostingSpecs(creditSpecs)
		if err != nil {
			return err
		}

		n, err := book.AddIncome(date, debits, credits, memoString, payeeString)
		if err != nil {
			return err
		}
		settings.RecordPayee(payeeString)
		if err := saveState(settings, journal); err != nil {
			return err
		}
		reportPosted(n)
		return nil
	},
}

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record an expense: credit the asset funds paying out",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)

		date, err := ledger.CheckDate(dateString)
		if err != nil {
			return err
		}
		debits, err := parsePostingSpecs(debitSpecs)
		if err != nil {
			return err
		}
		credits, err := parsePostingSpecs(creditSpecs)
		if err != nil {
			return err
		}

		n, err := postWithOverride(func(force bool) (int, error) {
			return book.AddExpense(date, debits, credits, memoString, payeeString, force)
		})
		if err != nil {
			return err
		}
		settings.RecordPayee(payeeString)
		if err := saveState(settings, journal); err != nil {
			return err
		}
		reportPosted(n)
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Move value between non-asset funds",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)

		date, err := ledger.CheckDate(dateString)
		if err != nil {
			return err
		}
		from, err := parsePostingSpecs(debitSpecs)
		if err != nil {
			return err
		}
		to, err := parsePostingSpecs(creditSpecs)
		if err != nil {
			return err
		}

		n, err := postWithOverride(func(force bool) (int, error) {
			return book.AddTransfer(date, from, to, memoString, force)
		})
		if err != nil {
			return err
		}
		if err := saveState(settings, journal); err != nil {
			return err
		}
		reportPosted(n)
		return nil
	},
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Swap value between two asset funds",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)

		date, err := ledger.CheckDate(dateString)
		if err != nil {
			return err
		}
		debits, err := parsePostingSpecs(debitSpecs)
		if err != nil {
			return err
		}
		credits, err := parsePostingSpecs(creditSpecs)
		if err != nil {
			return err
		}

		n, err := postWithOverride(func(force bool) (int, error) {
			return book.AddExchange(date, debits, credits, memoString, payeeString, force)
		})
		if err != nil {
			return err
		}
		settings.RecordPayee(payeeString)
		if err := saveState(settings, journal); err != nil {
			return err
		}
		reportPosted(n)
		return nil
	},
}

var offeringCmd = &cobra.Command{
	Use:   "offering",
	Short: "Record an offering and distribute it to configured funds",
	Long: `Record one or more currency receipts into asset funds. When
allocations are enabled the configured shares are credited first; the
remainder goes to funds with a fixed amount, then to funds with a
percentage.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)

		date, err := ledger.CheckDate(dateString)
		if err != nil {
			return err
		}
		receipts, err := parsePostingSpecs(receiptSpecs)
		if err != nil {
			return err
		}

		n, err := book.AddOffering(date, receipts, memoString)
		if err != nil {
			return err
		}
		if err := saveState(settings, journal); err != nil {
			return err
		}
		reportPosted(n)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{incomeCmd, expenseCmd, transferCmd, exchangeCmd, offeringCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&dateString, "date", "d", "", "Transaction date (DD/MM/YYYY).")
		c.Flags().StringVarP(&memoString, "memo", "m", "", "Transaction memo.")
		c.MarkFlagRequired("date")
		c.MarkFlagRequired("memo")
	}
	for _, c := range []*cobra.Command{incomeCmd, expenseCmd, exchangeCmd} {
		c.Flags().StringVarP(&payeeString, "payee", "p", "", "Payee name.")
	}
	for _, c := range []*cobra.Command{incomeCmd, expenseCmd, transferCmd, exchangeCmd} {
		c.Flags().StringArrayVar(&debitSpecs, "debit", nil, "Debit posting code:amount[@rate]; repeatable.")
		c.Flags().StringArrayVar(&creditSpecs, "credit", nil, "Credit posting code:amount[@rate]; repeatable.")
	}
	for _, c := range []*cobra.Command{expenseCmd, transferCmd, exchangeCmd} {
		c.Flags().BoolVar(&forcePost, "force", false, "Post even when a fund or rate lot would be overdrawn.")
	}
	offeringCmd.Flags().StringArrayVar(&receiptSpecs, "receipt", nil, "Receipt posting code:amount[@rate]; repeatable.")
}
