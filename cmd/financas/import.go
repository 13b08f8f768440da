package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"financas/internal/backend"
	applog "financas/internal/log"
	"financas/internal/services"
)

func importCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import <file.csv>...",
		Short: "Load CSV ledgers into the SQLite database",
		Long: `Read one or more CSV ledgers with the configured csv options, check that
they normalize cleanly and store every (period, category) amount in the
SQLite database. Existing amounts for the same period and category are
replaced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if dbPath == "" {
				dbPath = a.cfg.SQLite.Path
			}

			src, err := a.openBackend(ctx, func(c *backend.Config) {
				c.Type = backend.CSVBackend
				c.CSVPaths = args
			})
			if err != nil {
				return err
			}
			defer src.Close()

			table, err := src.Reader.ReadTable(ctx)
			if err != nil {
				return err
			}
			normalizer := services.NewNormalizer(a.serviceConfig().Normalize, a.logger)
			ledger, err := normalizer.NormalizeTable(ctx, table)
			if err != nil {
				return err
			}

			dst, err := a.openBackend(ctx, func(c *backend.Config) {
				c.Type = backend.SQLiteBackend
				c.SQLiteDBPath = dbPath
				c.SQLiteCreate = true
			})
			if err != nil {
				return err
			}
			defer dst.Close()

			n, err := dst.Writer.WriteTable(ctx, a.cfg.PeriodColumn, table)
			if err != nil {
				return fmt.Errorf("import into %s: %w", dbPath, err)
			}
			a.logger.Info("Ledger imported",
				applog.FieldOperation, applog.OpImport,
				applog.FieldPath, dbPath,
				applog.FieldRows, len(ledger.Rows),
				"cells", n)
			fmt.Fprintf(cmd.OutOrStdout(), "%d períodos, %d valores importados para %s\n", len(ledger.Rows), n, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "into", "", "SQLite database to import into (default: sqlite.path)")
	return cmd
}
