package calculation

import (
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX RULE ASSUMPTIONS:
//
// 1. Slab tables: FY 2024-25 individual rates (below 60 years), held constant
//    for any financial year label supplied in a rules file without tables.
//    - Old regime: 0% to 2.5L, 5% to 5L, 20% to 10L, 30% above
//    - New regime: 0% to 3L, 5% to 7L, 10% to 10L, 15% to 12L, 20% to 15L, 30% above
//
// 2. Standard deduction: 50,000 (old), 75,000 (new).
//
// 3. Rebate: old regime only, taxable income up to 5L, forgiven up to 12,500.
//    The new regime rebate is not modelled unless a rules file enables it.
//
// 4. Health and education cess: 4% on tax after rebate, both regimes.
//
// 5. Surcharge above 50L is not modelled.

// DefaultFinancialYear is the year the built-in tables describe.
const DefaultFinancialYear = "2024-25"

// DefaultOldRegimeRules returns the built-in old regime table.
func DefaultOldRegimeRules() domain.RegimeRules {
	return domain.RegimeRules{
		Regime:            domain.RegimeOld,
		StandardDeduction: decimal.NewFromInt(50000),
		Slabs: []domain.Slab{
			{Min: decimal.Zero, Max: decimal.NewFromInt(250000), Rate: decimal.Zero},
			{Min: decimal.NewFromInt(250000), Max: decimal.NewFromInt(500000), Rate: decimal.NewFromFloat(0.05)},
			{Min: decimal.NewFromInt(500000), Max: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.20)},
			{Min: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.30)},
		},
		Rebate: domain.RebateRule{
			Enabled:   true,
			Threshold: decimal.NewFromInt(500000),
			Max:       decimal.NewFromInt(12500),
		},
		CessRate:           decimal.NewFromFloat(0.04),
		ItemisedDeductions: true,
	}
}

// DefaultNewRegimeRules returns the built-in new regime table.
func DefaultNewRegimeRules() domain.RegimeRules {
	return domain.RegimeRules{
		Regime:            domain.RegimeNew,
		StandardDeduction: decimal.NewFromInt(75000),
		Slabs: []domain.Slab{
			{Min: decimal.Zero, Max: decimal.NewFromInt(300000), Rate: decimal.Zero},
			{Min: decimal.NewFromInt(300000), Max: decimal.NewFromInt(700000), Rate: decimal.NewFromFloat(0.05)},
			{Min: decimal.NewFromInt(700000), Max: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.10)},
			{Min: decimal.NewFromInt(1000000), Max: decimal.NewFromInt(1200000), Rate: decimal.NewFromFloat(0.15)},
			{Min: decimal.NewFromInt(1200000), Max: decimal.NewFromInt(1500000), Rate: decimal.NewFromFloat(0.20)},
			{Min: decimal.NewFromInt(1500000), Rate: decimal.NewFromFloat(0.30)},
		},
		CessRate: decimal.NewFromFloat(0.04),
	}
}

// DefaultTipPolicy returns the built-in materiality thresholds.
func DefaultTipPolicy() domain.TipPolicy {
	return domain.TipPolicy{
		MinSaving:   decimal.NewFromInt(100),
		MinHeadroom: decimal.NewFromInt(5000),
		SectionMinHeadroom: map[string]decimal.Decimal{
			domain.Section80C.String(): decimal.NewFromInt(10000),
			domain.Section24B.String(): decimal.NewFromInt(10000),
		},
	}
}

// DefaultTaxRules returns the built-in rules for DefaultFinancialYear.
func DefaultTaxRules() domain.TaxRules {
	return domain.TaxRules{
		FinancialYear: DefaultFinancialYear,
		Old:           DefaultOldRegimeRules(),
		New:           DefaultNewRegimeRules(),
		Tips:          DefaultTipPolicy(),
	}
}
