package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"financas/internal/core"
	applog "financas/internal/log"
)

// Default insight thresholds, as ratios.
const (
	DefaultHeavyCategoryRatio = 0.20
	DefaultSubscriptionsRatio = 0.05
	DefaultConcentrationRatio = 0.50
	DefaultGrowthRatio        = 0.15

	DefaultSubscriptionsCategory = "Assinaturas"
)

// InsightOptions configures the insight rules.
type InsightOptions struct {
	HeavyCategoryRatio    float64
	SubscriptionsRatio    float64
	ConcentrationRatio    float64
	GrowthRatio           float64
	SubscriptionsCategory string
	// Sources are the bank/source columns checked for concentration. Empty
	// means every category is a candidate.
	Sources []string
}

// DefaultInsightOptions returns the default thresholds.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{
		HeavyCategoryRatio:    DefaultHeavyCategoryRatio,
		SubscriptionsRatio:    DefaultSubscriptionsRatio,
		ConcentrationRatio:    DefaultConcentrationRatio,
		GrowthRatio:           DefaultGrowthRatio,
		SubscriptionsCategory: DefaultSubscriptionsCategory,
	}
}

// InsightEngine applies the recommendation rules to one period.
type InsightEngine struct {
	income float64
	opts   InsightOptions
	logger *applog.Logger
}

// NewInsightEngine creates an engine. Zero thresholds fall back to defaults.
func NewInsightEngine(income float64, opts InsightOptions, logger *applog.Logger) *InsightEngine {
	def := DefaultInsightOptions()
	if opts.HeavyCategoryRatio <= 0 {
		opts.HeavyCategoryRatio = def.HeavyCategoryRatio
	}
	if opts.SubscriptionsRatio <= 0 {
		opts.SubscriptionsRatio = def.SubscriptionsRatio
	}
	if opts.ConcentrationRatio <= 0 {
		opts.ConcentrationRatio = def.ConcentrationRatio
	}
	if opts.GrowthRatio <= 0 {
		opts.GrowthRatio = def.GrowthRatio
	}
	if strings.TrimSpace(opts.SubscriptionsCategory) == "" {
		opts.SubscriptionsCategory = def.SubscriptionsCategory
	}
	if logger == nil {
		logger = applog.Default()
	}
	return &InsightEngine{income: income, opts: opts, logger: logger.WithComponent(applog.ComponentInsights)}
}

// Evaluate returns the insights for the current period totals, in rule order:
// balance, heavy categories, subscriptions, source concentration, growth.
// previous may be nil when there is no earlier period.
func (e *InsightEngine) Evaluate(ctx context.Context, current, previous map[string]float64) []core.Insight {
	var out []core.Insight
	out = append(out, e.balanceRule(current))
	out = append(out, e.heavyCategoryRule(current)...)
	if in, ok := e.subscriptionsRule(current); ok {
		out = append(out, in)
	}
	if in, ok := e.concentrationRule(current); ok {
		out = append(out, in)
	}
	if previous != nil {
		out = append(out, e.growthRule(current, previous)...)
	}
	e.logger.DebugContext(ctx, "Insights evaluated",
		applog.FieldOperation, applog.OpInsights,
		"count", len(out),
		"has_previous", previous != nil)
	return out
}

// EvaluateLedger runs Evaluate on the latest period of the ledger, using the
// period before it for growth comparisons.
func (e *InsightEngine) EvaluateLedger(ctx context.Context, ledger core.Ledger) ([]core.Insight, error) {
	latest, err := ledger.Latest()
	if err != nil {
		return nil, err
	}
	var previous map[string]float64
	if prev, ok := ledger.Previous(); ok {
		previous = prev.Amounts
	}
	return e.Evaluate(ctx, latest.Amounts, previous), nil
}

func (e *InsightEngine) balanceRule(current map[string]float64) core.Insight {
	total := sumAmounts(current)
	if total > e.income {
		return core.Insight{
			Kind: core.InsightOverspend,
			Message: fmt.Sprintf("Atenção: os gastos (%s) superaram a renda em %s.",
				core.FormatBRL(total), core.FormatBRL(total-e.income)),
		}
	}
	return core.Insight{
		Kind: core.InsightSurplus,
		Message: fmt.Sprintf("Parabéns: sobraram %s da renda neste período.",
			core.FormatBRL(e.income-total)),
	}
}

func (e *InsightEngine) heavyCategoryRule(current map[string]float64) []core.Insight {
	var out []core.Insight
	for _, c := range sortedAmounts(current) {
		ratio := PercentUsed(e.income, c.Amount)
		if ratio < e.opts.HeavyCategoryRatio || c.Amount <= 0 {
			continue
		}
		out = append(out, core.Insight{
			Kind:     core.InsightHeavyCategory,
			Category: c.Name,
			Message: fmt.Sprintf("%s consome %s da renda (%s).",
				c.Name, core.FormatPercent(ratio), core.FormatBRL(c.Amount)),
		})
	}
	return out
}

func (e *InsightEngine) subscriptionsRule(current map[string]float64) (core.Insight, bool) {
	name, amount, ok := lookupFold(current, e.opts.SubscriptionsCategory)
	if !ok || amount <= 0 {
		return core.Insight{}, false
	}
	ratio := PercentUsed(e.income, amount)
	if ratio < e.opts.SubscriptionsRatio {
		return core.Insight{}, false
	}
	return core.Insight{
		Kind:     core.InsightSubscriptions,
		Category: name,
		Message: fmt.Sprintf("%s somam %s (%s da renda): revise os serviços que não usa.",
			name, core.FormatBRL(amount), core.FormatPercent(ratio)),
	}, true
}

func (e *InsightEngine) concentrationRule(current map[string]float64) (core.Insight, bool) {
	total := sumAmounts(current)
	if total <= 0 {
		return core.Insight{}, false
	}
	candidates := current
	if len(e.opts.Sources) > 0 {
		candidates = map[string]float64{}
		for _, src := range e.opts.Sources {
			if name, v, ok := lookupFold(current, src); ok {
				candidates[name] = v
			}
		}
	}
	top := sortedAmounts(candidates)
	if len(top) == 0 {
		return core.Insight{}, false
	}
	share := top[0].Amount / total
	if share < e.opts.ConcentrationRatio {
		return core.Insight{}, false
	}
	return core.Insight{
		Kind:     core.InsightConcentration,
		Category: top[0].Name,
		Message: fmt.Sprintf("%s concentra %s dos gastos do período.",
			top[0].Name, core.FormatPercent(share)),
	}, true
}

func (e *InsightEngine) growthRule(current, previous map[string]float64) []core.Insight {
	type growth struct {
		name  string
		ratio float64
	}
	var grown []growth
	for name, cur := range current {
		prev, ok := previous[name]
		if !ok || prev <= 0 {
			continue
		}
		ratio := (cur - prev) / prev
		if ratio >= e.opts.GrowthRatio {
			grown = append(grown, growth{name: name, ratio: ratio})
		}
	}
	sort.Slice(grown, func(i, j int) bool {
		if grown[i].ratio != grown[j].ratio {
			return grown[i].ratio > grown[j].ratio
		}
		return grown[i].name < grown[j].name
	})
	out := make([]core.Insight, 0, len(grown))
	for _, g := range grown {
		out = append(out, core.Insight{
			Kind:     core.InsightGrowth,
			Category: g.name,
			Message: fmt.Sprintf("%s aumentou %s em relação ao período anterior (%s -> %s).",
				g.name, core.FormatPercent(g.ratio),
				core.FormatBRL(previous[g.name]), core.FormatBRL(current[g.name])),
		})
	}
	return out
}

func sumAmounts(m map[string]float64) float64 {
	return core.NormalizedRow{Amounts: m}.Total()
}

func lookupFold(m map[string]float64, name string) (string, float64, bool) {
	if v, ok := m[name]; ok {
		return name, v, true
	}
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(name)) {
			return k, v, true
		}
	}
	return "", 0, false
}
