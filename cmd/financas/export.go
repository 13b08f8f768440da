package main

import (
	"github.com/spf13/cobra"

	applog "financas/internal/log"
	"financas/internal/report"
)

func exportCmd(a *app) *cobra.Command {
	var (
		output   string
		toStdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the summary artifact as JSON (gastos.json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			if toStdout {
				return report.WriteJSON(cmd.OutOrStdout(), r)
			}
			path := output
			if path == "" {
				path = a.cfg.Output.JSONPath
			}
			if err := report.WriteJSONFile(path, r); err != nil {
				return err
			}
			a.logger.WithComponent(applog.ComponentReport).Info("Artifact written",
				applog.FieldOperation, applog.OpExport,
				applog.FieldPath, path,
				applog.FieldPeriod, r.Summary.LatestPeriod.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "artifact path (default: output.json_path, gastos.json)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the artifact instead of writing a file")
	return cmd
}
