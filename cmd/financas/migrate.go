package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	applog "financas/internal/log"
	"financas/internal/storage"
)

func migrateCmd(a *app) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQLite database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath := a.cfg.SQLite.Path
			if dbPath == "" {
				return fmt.Errorf("sqlite.path is not configured")
			}
			log := a.logger.WithComponent(applog.ComponentStorage)

			if status {
				st, err := storage.Status(dbPath)
				if err != nil {
					return err
				}
				if !st.Applied {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: nenhuma migração aplicada\n", dbPath)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: versão %d (dirty=%t)\n", dbPath, st.Version, st.Dirty)
				return nil
			}

			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("create db directory: %w", err)
			}
			log.Info("Running database migrations", applog.FieldOperation, applog.OpMigrate, applog.FieldPath, dbPath)
			if err := storage.RunMigrations(dbPath); err != nil {
				return err
			}
			st, err := storage.Status(dbPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: esquema na versão %d\n", dbPath, st.Version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "show current migration status without applying changes")
	return cmd
}
