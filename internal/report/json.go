// Package report renders derived ledger records for people and for other
// programs: the gastos.json artifact and styled terminal output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"financas/internal/core"
)

// DefaultJSONPath is the artifact file name the dashboard front end reads.
const DefaultJSONPath = "gastos.json"

// Artifact is the JSON document written by the export command. The key names
// are the ones existing consumers of gastos.json expect.
type Artifact struct {
	GastosPorCategoria map[string]float64 `json:"gastos_por_categoria"`
	GastosUltimoMes    float64            `json:"gastos_ultimo_mes"`
	RendaMensal        float64            `json:"renda_mensal"`
	Saldo              float64            `json:"saldo"`
	Periodo            string             `json:"periodo"`
	PercentualUsado    float64            `json:"percentual_usado"`
	Insights           []string           `json:"insights,omitempty"`
	Previsao           []float64          `json:"previsao,omitempty"`
}

// NewArtifact builds the artifact from a report. Amounts are rounded to
// cents; the percentage is expressed out of 100.
func NewArtifact(r core.Report) Artifact {
	s := r.Summary
	byCat := make(map[string]float64, len(s.TotalsByCategory))
	for _, c := range s.TotalsByCategory {
		byCat[c.Name] = core.Round2(c.Amount)
	}
	a := Artifact{
		GastosPorCategoria: byCat,
		GastosUltimoMes:    core.Round2(s.LatestPeriodTotal),
		RendaMensal:        core.Round2(s.FixedIncome),
		Saldo:              core.Round2(s.Balance),
		Periodo:            s.LatestPeriod.String(),
		PercentualUsado:    core.Round2(s.PercentUsed * 100),
	}
	for _, in := range r.Insights {
		a.Insights = append(a.Insights, in.Message)
	}
	for _, p := range r.Forecast {
		a.Previsao = append(a.Previsao, core.Round2(p.Cumulative))
	}
	return a
}

// WriteJSON encodes the artifact for r to w with four-space indentation.
func WriteJSON(w io.Writer, r core.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewArtifact(r)); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// WriteJSONFile writes the artifact to path. The document goes to a
// temporary file in the same directory first and is renamed over path.
func WriteJSONFile(path string, r core.Report) error {
	if path == "" {
		path = DefaultJSONPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gastos-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
