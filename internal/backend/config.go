package backend

import (
	"fmt"

	"financas/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.Backend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.Backend)
	}

	return Config{
		Type:         backendType,
		PeriodColumn: appConfig.PeriodColumn,

		// CSV configuration
		CSVPaths:     appConfig.CSVPaths(),
		CSVEncoding:  appConfig.CSV.Encoding,
		CSVSeparator: appConfig.CSV.Separator,
		CSVLayout:    appConfig.CSV.Layout,

		// SQLite configuration
		SQLiteDBPath: appConfig.SQLite.Path,

		// Google Sheets configuration
		GoogleSpreadsheetID:   appConfig.Sheets.SpreadsheetID,
		GoogleSheetName:       appConfig.Sheets.SheetName,
		GooglePrefixYear:      appConfig.Sheets.PrefixYear,
		GoogleRange:           appConfig.Sheets.Range,
		GoogleLayout:          appConfig.Sheets.Layout,
		GoogleUnformatted:     appConfig.Sheets.Unformatted,
		GoogleCredentialsFile: appConfig.Sheets.CredentialsFile,
		GoogleCredentialsJSON: appConfig.Sheets.CredentialsJSON,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case CSVBackend:
		if len(c.CSVPaths) == 0 {
			return fmt.Errorf("at least one CSV path is required for csv backend")
		}

	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.GoogleSheetName == "" && c.GoogleRange == "" {
			return fmt.Errorf("Google Sheet name or range is required for sheets backend")
		}

	case MemoryBackend:
		// Memory backend starts from MemoryTable, possibly empty
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend}
}
