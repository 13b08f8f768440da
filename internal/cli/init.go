// Package cli provides common CLI initialization utilities shared by the
// financas subcommands.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"financas/internal/config"
	applog "financas/internal/log"
)

// SetupLogger initializes structured logging on w (stderr when nil) and sets
// it as the default logger.
func SetupLogger(w io.Writer, level, format string) (*applog.Logger, error) {
	lvl, err := applog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := applog.DefaultConfig()
	cfg.Level = lvl
	if format != "" {
		cfg.Format = format
	}
	if w != nil {
		cfg.Output = w
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration from v and validates it.
func LoadAndValidateConfig(v *viper.Viper, logger *applog.Logger) (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.NewFields().
			WithComponent(applog.ComponentConfig).
			WithOperation(applog.OpValidate).
			WithError(err).
			ToSlice()...)
		return nil, err
	}
	logger.WithComponent(applog.ComponentConfig).Debug("Configuration loaded",
		"backend", cfg.Backend,
		applog.FieldIncome, cfg.Income,
		"config_file", v.ConfigFileUsed())
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
