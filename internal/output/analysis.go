package output

import (
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the recommended plan and what choosing it saves.
type Recommendation struct {
	PlanName string
	Regime   domain.Regime
	TotalTax decimal.Decimal
	// SavingVsOtherRegime is what the plan saves over its own costlier regime.
	SavingVsOtherRegime decimal.Decimal
	// SavingVsWorstPlan is what the plan saves over the costliest plan's best regime.
	SavingVsWorstPlan decimal.Decimal
}

// AnalyzePlans resolves the recommended plan named in results.
// Extracted from the formatters for testability.
func AnalyzePlans(results *domain.PlanComparison) Recommendation {
	if results == nil || len(results.Plans) == 0 {
		return Recommendation{}
	}

	var rec Recommendation
	worst := decimal.Zero
	for i, plan := range results.Plans {
		best := plan.Comparison.Best()
		if i == 0 || best.TotalTax.GreaterThan(worst) {
			worst = best.TotalTax
		}
		if plan.Name == results.Recommended && rec.PlanName == "" {
			rec = Recommendation{
				PlanName:            plan.Name,
				Regime:              plan.Comparison.Cheaper,
				TotalTax:            best.TotalTax,
				SavingVsOtherRegime: plan.Comparison.Difference,
			}
		}
	}
	if rec.PlanName == "" {
		return Recommendation{}
	}
	rec.SavingVsWorstPlan = worst.Sub(rec.TotalTax)
	return rec
}
