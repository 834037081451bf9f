package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	ledger "github.com/joeree/Church-Financial-Accountability"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// balanceCmd prints the balance sheet: assets on top, liabilities,
// equities and net income below, with base-currency totals that must
// agree when the ledger balances.
var balanceCmd = &cobra.Command{
	Use:     "balance",
	Aliases: []string{"bal"},
	Short:   "Print the balance sheet",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}
		book := settings.NewBook(journal)
		sheet, err := book.BalanceSheet()
		if err != nil {
			return err
		}

		columns := outputColumns()
		buf := bufio.NewWriter(os.Stdout)
		writeBalanceSheet(buf, settings, sheet, columns)
		return buf.Flush()
	},
}

func writeBalanceSheet(buf *bufio.Writer, settings *ledger.Settings, sheet *ledger.BalanceSheet, columns int) {
	nameWidth := columns - 16
	center := func(s string) {
		pad := (columns - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(buf, "%*s%s\n", pad, "", s)
	}
	line := func(indent int, name string, amount decimal.Decimal) {
		writeBalanceLine(buf, indent, nameWidth, name, amount)
	}

	colorTitle.Fprint(buf, settings.Config.OrganizationName)
	buf.WriteString("\n")
	center("Balance Sheet Standard")
	fmt.Fprintln(buf, time.Now().Format(ledger.DateLayout))
	buf.WriteString("\n")

	colorTitle.Fprintln(buf, "ASSETS")
	base := settings.Chart.BaseCurrency
	for _, a := range sheet.Assets {
		if a.Currency == base {
			line(1, a.Code+" "+a.Name, a.Balance)
			continue
		}
		// foreign asset: own-currency amount, then its base value
		fmt.Fprintf(buf, "    %-*s  %14s\n", nameWidth, a.Code+" "+a.Name, a.Balance.StringFixed(2)+" "+a.Currency)
		line(2, base+" in "+a.Currency, a.BaseBalance)
	}
	line(1, "Total "+base, sheet.AssetsTotal())
	line(0, "TOTAL ASSETS", sheet.AssetsTotal())
	buf.WriteString("\n")

	colorTitle.Fprintln(buf, "LIABILITIES & EQUITY")
	fmt.Fprintln(buf, "    Liability Funds")
	for _, l := range sheet.Liabilities {
		line(2, l.Code+" "+l.Name, l.BaseBalance)
	}
	line(1, "Total Liability Funds", sumLines(sheet.Liabilities))

	fmt.Fprintln(buf, "    Equity Funds")
	for _, e := range sheet.Equities {
		line(2, e.Code+" "+e.Name, e.BaseBalance)
	}
	line(1, "Total Equity Funds", sumLines(sheet.Equities))

	fmt.Fprintln(buf, "    Net Income")
	fmt.Fprintln(buf, "        Revenue")
	for _, r := range sheet.Revenues {
		line(3, r.Code+" "+r.Name, r.BaseBalance)
	}
	line(2, "Total Revenue", sumLines(sheet.Revenues))
	fmt.Fprintln(buf, "        Expense")
	for _, x := range sheet.Expenses {
		line(3, x.Code+" "+x.Name, x.BaseBalance)
	}
	line(2, "Total Expense", sumLines(sheet.Expenses))
	// expenses consume income, so they reduce the net
	net := sumLines(sheet.Revenues).Sub(sumLines(sheet.Expenses))
	line(1, "Total Net Income", net)
	buf.WriteString("\n")

	line(0, "TOTAL LIABILITIES & EQUITY", sheet.LiabilitiesAndEquityTotal())
}

func writeBalanceLine(buf *bufio.Writer, indent, nameWidth int, name string, amount decimal.Decimal) {
	fmt.Fprintf(buf, "%*s%-*s", indent*4, "", nameWidth-(indent-1)*4, name)
	writeAmount(buf, amount, fmt.Sprintf("  %14s", amount.StringFixed(2)))
	buf.WriteString("\n")
}

func sumLines(lines []ledger.BalanceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.BaseBalance)
	}
	return total
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
	balanceCmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
}
