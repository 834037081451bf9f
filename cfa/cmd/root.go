// Package cmd implements the cfa command line interface.
package cmd

import (
	"log/slog"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	ledger "github.com/joeree/Church-Financial-Accountability"
	"github.com/spf13/cobra"
)

var (
	journalFilePath  string
	settingsFilePath string
	logLevel         string
)

var rootCmd = &cobra.Command{
	Use:   "cfa",
	Short: "Multi-currency fund ledger for small organizations",
	Long: `cfa records double-entry transactions across funds and currencies
and reports fund balances and the balance sheet.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogger(logLevel)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	cc.Init(&cc.Config{
		RootCmd:       rootCmd,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic + cc.HiBlue,
	})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&journalFilePath, "file", "f", "resources/journal.txt", "Ledger journal file.")
	rootCmd.PersistentFlags().StringVar(&settingsFilePath, "settings", "resources/settings.toml", "Settings file.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error).")
}

func setupLogger(name string) {
	var level slog.Level
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadState reads the settings and journal files. Missing files fall
// back to template settings and an empty ledger.
func loadState() (*ledger.Settings, *ledger.Ledger, error) {
	settings, err := ledger.LoadSettings(settingsFilePath)
	if err != nil {
		return nil, nil, err
	}
	journal, err := ledger.LoadJournal(journalFilePath)
	if err != nil {
		return nil, nil, err
	}
	return settings, journal, nil
}

// saveState persists both documents wholesale.
func saveState(settings *ledger.Settings, journal *ledger.Ledger) error {
	if err := ledger.SaveJournal(journalFilePath, journal); err != nil {
		return err
	}
	return settings.Save(settingsFilePath)
}
