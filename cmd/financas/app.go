package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"financas/internal/backend"
	"financas/internal/cli"
	"financas/internal/config"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/services"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string

	stdout io.Writer
	stderr io.Writer

	logger *applog.Logger
	cfg    *config.Config
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		v:      config.NewViper(""),
		stdout: stdout,
		stderr: stderr,
	}
}

// setup loads .env, the config file and the environment, then sets up logging.
func (a *app) setup(_ *cobra.Command, _ []string) error {
	if a.envFile != "" {
		cli.LoadEnvFile(a.envFile)
	} else {
		cli.LoadEnvFile()
	}
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	}
	// logging.* may come from the config file; read errors surface in Load
	_ = a.v.ReadInConfig()

	logger, err := cli.SetupLogger(a.stderr, a.v.GetString("logging.level"), a.v.GetString("logging.format"))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger.WithComponent(applog.ComponentCLI)

	cfg, err := cli.LoadAndValidateConfig(a.v, a.logger)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// openBackend creates the configured ledger source.
func (a *app) openBackend(ctx context.Context, mutate func(*backend.Config)) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&bc)
	}
	return backend.NewFactory(a.logger).CreateBackend(ctx, bc)
}

func (a *app) serviceConfig() services.LedgerServiceConfig {
	return services.LedgerServiceConfig{
		Income: a.cfg.Income,
		Normalize: services.NormalizeOptions{
			PeriodColumn: a.cfg.PeriodColumn,
			Monetary:     a.cfg.Categories,
			Exclude:      a.cfg.Exclude,
			Strict:       a.cfg.Strict,
		},
		Insights: services.InsightOptions{
			HeavyCategoryRatio:    a.cfg.Thresholds.HeavyCategory,
			SubscriptionsRatio:    a.cfg.Thresholds.Subscriptions,
			ConcentrationRatio:    a.cfg.Thresholds.Concentration,
			GrowthRatio:           a.cfg.Thresholds.Growth,
			SubscriptionsCategory: a.cfg.SubscriptionsCategory,
			Sources:               a.cfg.Banks,
		},
		Horizon: a.cfg.Forecast.Horizon,
	}
}

// buildReport loads the ledger from the configured backend and derives the
// full report.
func (a *app) buildReport(ctx context.Context) (core.Report, error) {
	res, err := a.openBackend(ctx, nil)
	if err != nil {
		return core.Report{}, err
	}
	defer res.Close()

	svc := services.NewLedgerService(res.Reader, a.serviceConfig(), a.logger)
	return svc.Report(ctx)
}
