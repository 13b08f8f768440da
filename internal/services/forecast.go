package services

import "financas/internal/core"

// DefaultForecastHorizon is the number of future periods projected when the
// caller does not choose one.
const DefaultForecastHorizon = 6

// Forecast projects cumulative savings for the next horizon periods as
// averageBalance * (i+1). It is a plain linear extrapolation: no seasonality
// and no decay.
func Forecast(averageBalance float64, horizon int) []core.ForecastPoint {
	if horizon <= 0 {
		return []core.ForecastPoint{}
	}
	out := make([]core.ForecastPoint, horizon)
	for i := range out {
		out[i] = core.ForecastPoint{Step: i + 1, Cumulative: averageBalance * float64(i+1)}
	}
	return out
}
