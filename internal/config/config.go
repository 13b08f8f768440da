package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "FINANCAS"

// Backend names.
const (
	BackendCSV    = "csv"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Monthly fixed income every period is compared against
	Income float64 `mapstructure:"income"`

	// Data source
	Backend      string   `mapstructure:"backend"`
	PeriodColumn string   `mapstructure:"period_column"`
	Categories   []string `mapstructure:"categories"`
	Exclude      []string `mapstructure:"exclude"`
	Strict       bool     `mapstructure:"strict"`

	CSV    CSVConfig    `mapstructure:"csv"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Sheets SheetsConfig `mapstructure:"sheets"`

	// Insight rules
	Banks                 []string         `mapstructure:"banks"`
	SubscriptionsCategory string           `mapstructure:"subscriptions_category"`
	Thresholds            ThresholdsConfig `mapstructure:"thresholds"`

	Forecast ForecastConfig `mapstructure:"forecast"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type CSVConfig struct {
	// Paths lists additional files merged with Path.
	Path      string   `mapstructure:"path"`
	Paths     []string `mapstructure:"paths"`
	Encoding  string   `mapstructure:"encoding"`
	Separator string   `mapstructure:"separator"`
	Layout    string   `mapstructure:"layout"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SheetName       string `mapstructure:"sheet_name"`
	PrefixYear      bool   `mapstructure:"prefix_year"`
	Range           string `mapstructure:"range"`
	Layout          string `mapstructure:"layout"`
	Unformatted     bool   `mapstructure:"unformatted"`
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

type ThresholdsConfig struct {
	HeavyCategory float64 `mapstructure:"heavy_category"`
	Subscriptions float64 `mapstructure:"subscriptions"`
	Concentration float64 `mapstructure:"concentration"`
	Growth        float64 `mapstructure:"growth"`
}

type ForecastConfig struct {
	Horizon int `mapstructure:"horizon"`
}

type OutputConfig struct {
	JSONPath string `mapstructure:"json_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key on v. Keys without a default are not
// seen by Unmarshal when they only come from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("income", 0.0)
	v.SetDefault("backend", BackendCSV)
	v.SetDefault("period_column", "Data")
	v.SetDefault("categories", []string{})
	v.SetDefault("exclude", []string{})
	v.SetDefault("strict", false)
	v.SetDefault("banks", []string{})
	v.SetDefault("csv.path", "gastos_mensais.csv")
	v.SetDefault("csv.paths", []string{})
	v.SetDefault("csv.encoding", "utf-8")
	v.SetDefault("csv.separator", ",")
	v.SetDefault("csv.layout", "wide")
	v.SetDefault("sqlite.path", "./data/financas.db")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet_name", "Gastos")
	v.SetDefault("sheets.prefix_year", false)
	v.SetDefault("sheets.range", "")
	v.SetDefault("sheets.layout", "wide")
	v.SetDefault("sheets.unformatted", false)
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("subscriptions_category", "Assinaturas")
	v.SetDefault("thresholds.heavy_category", 0.20)
	v.SetDefault("thresholds.subscriptions", 0.05)
	v.SetDefault("thresholds.concentration", 0.50)
	v.SetDefault("thresholds.growth", 0.15)
	v.SetDefault("forecast.horizon", 6)
	v.SetDefault("output.json_path", "gastos.json")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// NewViper returns a viper instance wired for FINANCAS_* environment variables
// and an optional config file. An empty cfgFile searches for financas.yaml in
// the working directory and in $HOME/.config/financas.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("financas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "financas"))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) and the environment into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Categories = splitList(cfg.Categories)
	cfg.Exclude = splitList(cfg.Exclude)
	cfg.Banks = splitList(cfg.Banks)
	cfg.CSV.Paths = splitList(cfg.CSV.Paths)
	return cfg, nil
}

// CSVPaths returns every CSV file to read, Path first.
func (c *Config) CSVPaths() []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range append([]string{c.CSV.Path}, c.CSV.Paths...) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.Income < 0 {
		errors = append(errors, fmt.Sprintf("invalid income %.2f: must not be negative", c.Income))
	}

	validBackends := []string{BackendCSV, BackendSheets, BackendSQLite}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if strings.TrimSpace(c.PeriodColumn) == "" {
		errors = append(errors, "period column cannot be empty")
	}

	switch c.Backend {
	case BackendCSV:
		if len(c.CSVPaths()) == 0 {
			errors = append(errors, "CSV path cannot be empty when using csv backend")
		}
		switch strings.ToLower(c.CSV.Layout) {
		case "", "wide", "long":
		default:
			errors = append(errors, fmt.Sprintf("invalid csv layout '%s': must be 'wide' or 'long'", c.CSV.Layout))
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			errors = append(errors, "spreadsheet ID is required when using sheets backend")
		}
		if c.Sheets.SheetName == "" && !strings.Contains(c.Sheets.Range, "!") {
			errors = append(errors, "sheet name is required when using sheets backend")
		}
		switch strings.ToLower(c.Sheets.Layout) {
		case "", "wide", "long", "dashboard":
		default:
			errors = append(errors, fmt.Sprintf("invalid sheets layout '%s': must be 'wide', 'long' or 'dashboard'", c.Sheets.Layout))
		}
		if c.Sheets.CredentialsFile != "" {
			if _, err := os.Stat(c.Sheets.CredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.Sheets.CredentialsFile))
			}
		}
	}

	thresholds := []struct {
		name  string
		ratio float64
	}{
		{"heavy_category", c.Thresholds.HeavyCategory},
		{"subscriptions", c.Thresholds.Subscriptions},
		{"concentration", c.Thresholds.Concentration},
		{"growth", c.Thresholds.Growth},
	}
	for _, t := range thresholds {
		if t.ratio < 0 || t.ratio > 10 {
			errors = append(errors, fmt.Sprintf("invalid threshold %s=%v: must be a ratio between 0 and 10", t.name, t.ratio))
		}
	}

	if c.Forecast.Horizon < 1 || c.Forecast.Horizon > 120 {
		errors = append(errors, fmt.Sprintf("invalid forecast horizon %d: must be between 1 and 120", c.Forecast.Horizon))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
