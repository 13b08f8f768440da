package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldSource    = "source"
	FieldPath      = "path"
	FieldPeriod    = "period"
	FieldCategory  = "category"
	FieldRows      = "rows"
	FieldIncome    = "income"
	FieldTotal     = "total"
	FieldBalance   = "balance"
	FieldDuration  = "duration_ms"
	FieldSheetsRef = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentCLI        = "cli"
	ComponentConfig     = "config"
	ComponentBackend    = "backend"
	ComponentCSV        = "csv"
	ComponentSheets     = "sheets"
	ComponentStorage    = "storage"
	ComponentNormalizer = "normalizer"
	ComponentAggregator = "aggregator"
	ComponentInsights   = "insights"
	ComponentReport     = "report"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpNormalize = "normalize"
	OpAggregate = "aggregate"
	OpInsights  = "insights"
	OpForecast  = "forecast"
	OpExport    = "export"
	OpImport    = "import"
	OpMigrate   = "migrate"
	OpValidate  = "validate"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSource adds the data source kind and location
func (f LogFields) WithSource(kind, location string) LogFields {
	f[FieldSource] = kind
	f[FieldPath] = location
	return f
}

// WithSummary adds the headline numbers of a summary
func (f LogFields) WithSummary(period string, income, total, balance float64) LogFields {
	f[FieldPeriod] = period
	f[FieldIncome] = income
	f[FieldTotal] = total
	f[FieldBalance] = balance
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
