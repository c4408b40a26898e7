package calculation

import (
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// BreakEvenDeductions returns the smallest whole-rupee amount of additional
// old regime deductions at which the old regime is no more expensive than
// the new one. Zero means the old regime already wins or ties.
func (ce *CalculationEngine) BreakEvenDeductions(income domain.IncomeProfile, deductions []domain.DeductionItem, hra domain.HRAInputs) domain.BreakEven {
	return ce.breakEven(ce.evaluate(income, deductions, hra).comparison)
}

// breakEven bisects over the extra deduction amount. Old regime tax is
// non-increasing as deductions grow (the rebate cliff only drops it further),
// so the predicate "old <= new" is monotone and bisection finds the boundary.
func (ce *CalculationEngine) breakEven(cmp domain.ComparisonResult) domain.BreakEven {
	target := cmp.New.TotalTax
	result := domain.BreakEven{
		Reachable:            true,
		AdditionalDeductions: decimal.Zero,
		OldTaxAtBreakEven:    cmp.Old.TotalTax,
		NewTax:               target,
	}
	if cmp.Old.TotalTax.LessThanOrEqual(target) {
		return result
	}
	if !ce.Rules.Old.ItemisedDeductions {
		result.Reachable = false
		return result
	}

	taxable := cmp.Old.TaxableIncome
	oldTaxWith := func(extra int64) decimal.Decimal {
		reduced := domain.NonNegative(taxable.Sub(decimal.NewFromInt(extra)))
		return ce.OldCalc.Calculate(reduced).TotalTax
	}

	// Zero taxable income yields zero tax, so hi always satisfies the predicate.
	lo, hi := int64(0), taxable.Ceil().IntPart()
	if oldTaxWith(hi).GreaterThan(target) {
		result.Reachable = false
		return result
	}

	maxIterations := 64
	for i := 0; i < maxIterations && hi-lo > 1; i++ {
		mid := lo + (hi-lo)/2
		if oldTaxWith(mid).LessThanOrEqual(target) {
			hi = mid
		} else {
			lo = mid
		}
	}

	result.AdditionalDeductions = decimal.NewFromInt(hi)
	result.OldTaxAtBreakEven = oldTaxWith(hi)
	return result
}
