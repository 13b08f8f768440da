package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "financas",
		Short: "Personal finance summaries from a monthly spending ledger",
		Long: `financas reads a monthly spending ledger (CSV, Google Sheets or SQLite),
compares each month against a fixed income and reports totals, balance,
spending insights and a savings forecast.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./financas.yaml or $HOME/.config/financas/financas.yaml)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file to load (default: .env)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.Float64("income", 0, "fixed monthly income")
	flags.String("backend", "", "data backend (csv, sheets, sqlite)")
	flags.String("csv", "", "CSV ledger file")
	flags.String("db", "", "SQLite database file")
	flags.String("period-column", "", "name of the period column")

	// Bind flags to viper
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("income", flags.Lookup("income"))
	_ = a.v.BindPFlag("backend", flags.Lookup("backend"))
	_ = a.v.BindPFlag("csv.path", flags.Lookup("csv"))
	_ = a.v.BindPFlag("sqlite.path", flags.Lookup("db"))
	_ = a.v.BindPFlag("period_column", flags.Lookup("period-column"))

	root.AddCommand(summaryCmd(a))
	root.AddCommand(historyCmd(a))
	root.AddCommand(insightsCmd(a))
	root.AddCommand(forecastCmd(a))
	root.AddCommand(reportCmd(a))
	root.AddCommand(exportCmd(a))
	root.AddCommand(importCmd(a))
	root.AddCommand(migrateCmd(a))
	root.AddCommand(versionCmd(a))

	return root
}
