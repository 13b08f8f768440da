package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"financas/internal/core"
)

// RenderSummary prints the per-category totals and the latest period figures.
func RenderSummary(w io.Writer, s core.Summary) error {
	fmt.Fprintln(w, TitleStyle.Render("Resumo financeiro"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", TableHeaderStyle.Render("Categoria"), TableHeaderStyle.Render("Total"))
	for _, c := range s.TotalsByCategory {
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Name, core.FormatBRL(c.Amount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("Período mais recente: %s", s.LatestPeriod),
		fmt.Sprintf("Gastos no período:    %s", core.FormatBRL(s.LatestPeriodTotal)),
		fmt.Sprintf("Renda mensal:         %s", core.FormatBRL(s.FixedIncome)),
		fmt.Sprintf("Saldo:                %s", balanceStyle(s.Balance).Render(core.FormatBRL(s.Balance))),
		fmt.Sprintf("Renda utilizada:      %s", core.FormatPercent(s.PercentUsed)),
	}
	_, err := fmt.Fprintln(w, BoxStyle.Render(strings.Join(lines, "\n")))
	return err
}

// RenderHistory prints one line per period in chronological order.
func RenderHistory(w io.Writer, periods []core.PeriodOverview) error {
	fmt.Fprintln(w, TitleStyle.Render("Histórico"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("Período"),
		TableHeaderStyle.Render("Gastos"),
		TableHeaderStyle.Render("Saldo"),
		TableHeaderStyle.Render("Uso da renda"))
	for _, p := range periods {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			p.Period,
			core.FormatBRL(p.Total),
			balanceStyle(p.Balance).Render(core.FormatBRL(p.Balance)),
			core.FormatPercent(p.PercentUsed))
	}
	return tw.Flush()
}

// RenderInsights prints the insight messages in rule order.
func RenderInsights(w io.Writer, insights []core.Insight) error {
	fmt.Fprintln(w, TitleStyle.Render("Recomendações"))
	if len(insights) == 0 {
		_, err := fmt.Fprintln(w, SubtitleStyle.Render("Nenhuma recomendação para o período."))
		return err
	}
	for _, in := range insights {
		if _, err := fmt.Fprintf(w, "%s %s\n", insightStyle(in.Kind).Render("•"), in.Message); err != nil {
			return err
		}
	}
	return nil
}

// RenderForecast prints the cumulative savings projection.
func RenderForecast(w io.Writer, averageBalance float64, points []core.ForecastPoint) error {
	fmt.Fprintln(w, TitleStyle.Render("Previsão de economia"))
	fmt.Fprintln(w, SubtitleStyle.Render("Saldo médio por período: "+core.FormatBRL(averageBalance)))
	if len(points) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", TableHeaderStyle.Render("Período"), TableHeaderStyle.Render("Acumulado"))
	for _, p := range points {
		fmt.Fprintf(tw, "+%d\t%s\n", p.Step, balanceStyle(p.Cumulative).Render(core.FormatBRL(p.Cumulative)))
	}
	return tw.Flush()
}

// RenderReport prints every section of a report.
func RenderReport(w io.Writer, r core.Report) error {
	if r.Source != "" {
		fmt.Fprintln(w, SubtitleStyle.Render("Fonte: "+r.Source))
	}
	steps := []func() error{
		func() error { return RenderSummary(w, r.Summary) },
		func() error { return RenderHistory(w, r.Periods) },
		func() error { return RenderInsights(w, r.Insights) },
		func() error { return RenderForecast(w, r.AverageBalance, r.Forecast) },
	}
	for i, step := range steps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func balanceStyle(v float64) lipgloss.Style {
	if v < 0 {
		return NegativeStyle
	}
	return PositiveStyle
}

func insightStyle(kind core.InsightKind) lipgloss.Style {
	switch kind {
	case core.InsightOverspend:
		return NegativeStyle
	case core.InsightSurplus:
		return PositiveStyle
	default:
		return WarningStyle
	}
}
