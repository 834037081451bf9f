package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	ledger "github.com/joeree/Church-Financial-Accountability"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	fundName        string
	fundDescription string
	fundCurrency    string
	fundPercent     string
	fundAmount      string
)

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Manage the chart of accounts",
}

// fundsListCmd prints the chart grouped by category.
var fundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all funds by category",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, _, err := loadState()
		if err != nil {
			return err
		}

		headers := map[ledger.Category]string{
			ledger.Asset:     "ASSETS",
			ledger.Liability: "LIABILITIES",
			ledger.Equity:    "EQUITIES",
			ledger.Revenue:   "REVENUES",
			ledger.Expense:   "EXPENSES",
		}
		buf := bufio.NewWriter(os.Stdout)
		for _, cat := range []ledger.Category{
			ledger.Asset, ledger.Liability, ledger.Equity, ledger.Revenue, ledger.Expense,
		} {
			colorTitle.Fprintln(buf, headers[cat])
			for _, f := range settings.Chart.Funds(cat) {
				fmt.Fprintf(buf, "    %s %s", f.Code, f.Name)
				if f.Category == ledger.Asset {
					fmt.Fprintf(buf, " (%s)", f.Currency)
				} else {
					if !f.Percent.IsZero() {
						fmt.Fprintf(buf, " (%s%%)", f.Percent)
					}
					if !f.Amount.IsZero() {
						fmt.Fprintf(buf, " (%s fixed)", f.Amount.StringFixed(2))
					}
				}
				if f.Description != "" {
					fmt.Fprintf(buf, " - %s", f.Description)
				}
				buf.WriteString("\n")
			}
		}
		return buf.Flush()
	},
}

// fundsAddCmd creates a fund. The code's leading digit picks the
// category; asset funds may carry a currency, the rest an automatic
// allocation percent or fixed amount.
var fundsAddCmd = &cobra.Command{
	Use:   "add <fund-code> <name>",
	Args:  cobra.ExactArgs(2),
	Short: "Add a fund to the chart of accounts",
	RunE: func(_ *cobra.Command, args []string) error {
		settings, _, err := loadState()
		if err != nil {
			return err
		}

		percent := decimal.Zero
		amount := decimal.Zero
		if fundPercent != "" {
			if percent, err = decimal.NewFromString(fundPercent); err != nil {
				return fmt.Errorf("bad percent %q: %w", fundPercent, err)
			}
		}
		if fundAmount != "" {
			if amount, err = parseAmount(fundAmount); err != nil {
				return err
			}
		}

		f, err := settings.Chart.AddFund(args[0], args[1], percent, amount)
		if err != nil {
			return err
		}
		f.Description = fundDescription
		if f.Category == ledger.Asset && fundCurrency != "" {
			f.Currency = strings.ToUpper(fundCurrency)
		}

		if err := settings.Save(settingsFilePath); err != nil {
			return err
		}
		fmt.Printf("Added %s fund %s\n", f.Category, f.FullName())
		return nil
	},
}

// fundsEditCmd renames a fund or updates its description. The code and
// category never change; posted entries reference the code only.
var fundsEditCmd = &cobra.Command{
	Use:   "edit <fund-code>",
	Args:  cobra.ExactArgs(1),
	Short: "Edit a fund's name or description",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := loadState()
		if err != nil {
			return err
		}
		f, err := settings.Chart.Fund(args[0])
		if err != nil {
			return err
		}

		if fundName != "" {
			f.Name = fundName
		}
		if cmd.Flags().Changed("description") {
			f.Description = fundDescription
		}
		if f.Category == ledger.Asset && fundCurrency != "" {
			f.Currency = strings.ToUpper(fundCurrency)
		}
		if f.Category != ledger.Asset {
			if fundPercent != "" {
				if f.Percent, err = decimal.NewFromString(fundPercent); err != nil {
					return fmt.Errorf("bad percent %q: %w", fundPercent, err)
				}
			}
			if fundAmount != "" {
				if f.Amount, err = parseAmount(fundAmount); err != nil {
					return err
				}
			}
		}

		if err := settings.Save(settingsFilePath); err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", f.FullName())
		return nil
	},
}

// suggestCmd guesses the credit fund for a memo from ledger history.
var suggestCmd = &cobra.Command{
	Use:   "suggest <memo words>...",
	Args:  cobra.MinimumNArgs(1),
	Short: "Suggest a credit fund for a memo based on past transactions",
	RunE: func(_ *cobra.Command, args []string) error {
		settings, journal, err := loadState()
		if err != nil {
			return err
		}

		code := ledger.TrainSuggester(journal).Suggest(args)
		if code == "" {
			fmt.Println("Not enough history to make a suggestion.")
			return nil
		}
		fmt.Println(settings.Chart.FullName(code))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fundsCmd)
	fundsCmd.AddCommand(fundsListCmd)
	fundsCmd.AddCommand(fundsAddCmd)
	fundsCmd.AddCommand(fundsEditCmd)
	rootCmd.AddCommand(suggestCmd)

	fundsEditCmd.Flags().StringVar(&fundName, "name", "", "New fund name.")
	for _, c := range []*cobra.Command{fundsAddCmd, fundsEditCmd} {
		c.Flags().StringVar(&fundDescription, "description", "", "Fund description.")
		c.Flags().StringVar(&fundCurrency, "currency", "", "Currency code for an asset fund.")
		c.Flags().StringVar(&fundPercent, "percent", "", "Automatic allocation percentage.")
		c.Flags().StringVar(&fundAmount, "amount", "", "Fixed automatic allocation amount.")
	}
}
