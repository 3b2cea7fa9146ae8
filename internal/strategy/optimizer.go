// Package strategy maintains per-category strategy weights that bias how
// aggressively the training loop pursues each action category. Weights
// adapt multiplicatively to the observed success rate: winning strategies
// get reinforced, losing ones softened.
package strategy

import (
	"log/slog"
	"math"

	"github.com/zero-day-ai/strider/internal/action"
)

// Weight bounds and adjustment factors. Bounds keep one runaway category
// from starving the rest.
const (
	weightFloor   = 0.1
	weightCeiling = 10.0
	successFactor = 1.05
	failureFactor = 0.95

	highSuccessRate = 0.8
	lowSuccessRate  = 0.2
)

// Optimizer holds one weight per action category.
type Optimizer struct {
	weights map[action.Category]float64
	logger  *slog.Logger
}

// Result carries the aggregated outcome the optimizer adapts to.
type Result struct {
	SuccessRate float64
	// ActionCounts maps executed action names to their frequency within
	// the evaluated window.
	ActionCounts map[string]int
}

// NewOptimizer creates an optimizer with all category weights at 1.
func NewOptimizer(logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{
		weights: map[action.Category]float64{
			action.CategoryReconnaissance:   1.0,
			action.CategoryVulnerability:    1.0,
			action.CategoryExploitation:     1.0,
			action.CategoryPrivilege:        1.0,
			action.CategoryPostExploitation: 1.0,
		},
		logger: logger,
	}
}

// Weight returns the current weight for a category. Unknown categories
// report a neutral weight of 1.
func (o *Optimizer) Weight(cat action.Category) float64 {
	if w, ok := o.weights[cat]; ok {
		return w
	}
	return 1.0
}

// Weights returns a copy of the full weight table.
func (o *Optimizer) Weights() map[action.Category]float64 {
	out := make(map[action.Category]float64, len(o.weights))
	for cat, w := range o.weights {
		out[cat] = w
	}
	return out
}

// Optimize adapts the weights to an aggregated test result. Categories
// that were actually exercised move toward the outcome: up when the
// success rate clears the high bar, down when it misses the low bar.
// Middling results leave the weights alone.
func (o *Optimizer) Optimize(catalog *action.Catalog, result Result) {
	var factor float64
	switch {
	case result.SuccessRate > highSuccessRate:
		factor = successFactor
	case result.SuccessRate < lowSuccessRate:
		factor = failureFactor
	default:
		return
	}

	exercised := exercisedCategories(catalog, result.ActionCounts)
	for cat := range exercised {
		o.weights[cat] = clampWeight(o.weights[cat] * factor)
	}

	o.logger.Debug("strategy weights adjusted",
		"success_rate", result.SuccessRate,
		"factor", factor,
		"categories", len(exercised))
}

// exercisedCategories resolves executed action names to their categories.
// Names the catalog does not know are skipped.
func exercisedCategories(catalog *action.Catalog, counts map[string]int) map[action.Category]struct{} {
	out := make(map[action.Category]struct{})
	for _, desc := range catalog.All() {
		if counts[desc.Name] > 0 {
			out[desc.Category] = struct{}{}
		}
	}
	return out
}

func clampWeight(w float64) float64 {
	return math.Min(weightCeiling, math.Max(weightFloor, w))
}
