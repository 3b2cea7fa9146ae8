package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zero-day-ai/strider/internal/action"
)

func TestOptimizer_NeutralStart(t *testing.T) {
	o := NewOptimizer(nil)

	for cat, w := range o.Weights() {
		assert.Equal(t, 1.0, w, "category %s", cat)
	}
	assert.Equal(t, 1.0, o.Weight(action.Category("unknown")))
}

func TestOptimize_HighSuccessReinforcesExercisedCategories(t *testing.T) {
	o := NewOptimizer(nil)
	catalog := action.NewCatalog()

	o.Optimize(catalog, Result{
		SuccessRate: 0.9,
		ActionCounts: map[string]int{
			action.PortScan:         5,
			action.SQLInjectionTest: 2,
		},
	})

	assert.Greater(t, o.Weight(action.CategoryReconnaissance), 1.0)
	assert.Greater(t, o.Weight(action.CategoryExploitation), 1.0)
	assert.Equal(t, 1.0, o.Weight(action.CategoryPrivilege))
	assert.Equal(t, 1.0, o.Weight(action.CategoryVulnerability))
}

func TestOptimize_LowSuccessSoftensExercisedCategories(t *testing.T) {
	o := NewOptimizer(nil)
	catalog := action.NewCatalog()

	o.Optimize(catalog, Result{
		SuccessRate:  0.1,
		ActionCounts: map[string]int{action.PrivilegeEscalation: 3},
	})

	assert.Less(t, o.Weight(action.CategoryPrivilege), 1.0)
	assert.Equal(t, 1.0, o.Weight(action.CategoryReconnaissance))
}

func TestOptimize_MiddlingSuccessIsNoop(t *testing.T) {
	o := NewOptimizer(nil)
	catalog := action.NewCatalog()

	o.Optimize(catalog, Result{
		SuccessRate:  0.5,
		ActionCounts: map[string]int{action.PortScan: 10},
	})

	for cat, w := range o.Weights() {
		assert.Equal(t, 1.0, w, "category %s", cat)
	}
}

func TestOptimize_WeightsStayBounded(t *testing.T) {
	o := NewOptimizer(nil)
	catalog := action.NewCatalog()

	counts := map[string]int{action.PortScan: 1}
	for i := 0; i < 500; i++ {
		o.Optimize(catalog, Result{SuccessRate: 0.95, ActionCounts: counts})
	}
	assert.LessOrEqual(t, o.Weight(action.CategoryReconnaissance), weightCeiling)

	for i := 0; i < 500; i++ {
		o.Optimize(catalog, Result{SuccessRate: 0.05, ActionCounts: counts})
	}
	assert.GreaterOrEqual(t, o.Weight(action.CategoryReconnaissance), weightFloor)
}

func TestOptimize_UnknownActionNamesIgnored(t *testing.T) {
	o := NewOptimizer(nil)
	catalog := action.NewCatalog()

	o.Optimize(catalog, Result{
		SuccessRate:  0.9,
		ActionCounts: map[string]int{"kernel_exploit": 4},
	})

	for cat, w := range o.Weights() {
		assert.Equal(t, 1.0, w, "category %s", cat)
	}
}
