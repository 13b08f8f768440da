package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"financas/internal/report"
	"financas/internal/services"
)

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show category totals and the latest period balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			return report.RenderSummary(cmd.OutOrStdout(), r.Summary)
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show spending and balance for every period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			return report.RenderHistory(cmd.OutOrStdout(), r.Periods)
		},
	}
}

func insightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show spending recommendations for the latest period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			return report.RenderInsights(cmd.OutOrStdout(), r.Insights)
		},
	}
}

func forecastCmd(a *app) *cobra.Command {
	var horizon int
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project cumulative savings from the average balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("horizon") && (horizon < 1 || horizon > 120) {
				return fmt.Errorf("invalid forecast horizon %d: must be between 1 and 120", horizon)
			}
			r, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			points := r.Forecast
			if cmd.Flags().Changed("horizon") {
				points = services.Forecast(r.AverageBalance, horizon)
			}
			return report.RenderForecast(cmd.OutOrStdout(), r.AverageBalance, points)
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", services.DefaultForecastHorizon, "number of future periods to project")
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show summary, history, insights and forecast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			return report.RenderReport(cmd.OutOrStdout(), r)
		},
	}
}
