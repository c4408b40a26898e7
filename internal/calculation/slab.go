package calculation

import (
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeTaxCalculator applies one regime's slab table, rebate and cess.
type RegimeTaxCalculator struct {
	Rules domain.RegimeRules
}

// NewRegimeTaxCalculator creates a calculator for the given regime rules
func NewRegimeTaxCalculator(rules domain.RegimeRules) *RegimeTaxCalculator {
	return &RegimeTaxCalculator{Rules: rules}
}

// Calculate computes the tax on an already reduced taxable income.
func (rtc *RegimeTaxCalculator) Calculate(taxableIncome decimal.Decimal) domain.RegimeResult {
	return ComputeSlabTax(taxableIncome, rtc.Rules)
}

// ComputeSlabTax steps taxableIncome through the slab table in ascending
// order. Bands are half-open [Min, Max) and the last band is open-ended.
// The breakdown lists every band the income reaches; the first band is
// always listed so a zero-rate band stays visible.
func ComputeSlabTax(taxableIncome decimal.Decimal, rules domain.RegimeRules) domain.RegimeResult {
	taxable := domain.NonNegative(taxableIncome)

	result := domain.RegimeResult{
		Regime:        rules.Regime,
		TaxableIncome: taxable,
		Slabs:         make([]domain.SlabBand, 0, len(rules.Slabs)),
	}

	tax := decimal.Zero
	for i, slab := range rules.Slabs {
		last := i == len(rules.Slabs)-1
		if i > 0 && taxable.LessThanOrEqual(slab.Min) {
			break
		}

		ceiling := taxable
		if !last {
			ceiling = decimal.Min(taxable, slab.Max)
		}
		amount := domain.NonNegative(ceiling.Sub(slab.Min))
		bandTax := amount.Mul(slab.Rate)
		tax = tax.Add(bandTax)

		band := domain.SlabBand{Lower: slab.Min, Rate: slab.Rate, Taxed: amount, Tax: bandTax}
		if !last {
			upper := slab.Max
			band.Upper = &upper
		}
		result.Slabs = append(result.Slabs, band)
	}
	result.TaxBeforeRebate = tax

	rebate := decimal.Zero
	if rules.Rebate.Enabled && taxable.LessThanOrEqual(rules.Rebate.Threshold) {
		rebate = decimal.Min(tax, domain.NonNegative(rules.Rebate.Max))
	}
	result.Rebate = rebate

	afterRebate := domain.NonNegative(tax.Sub(rebate))
	cess := decimal.Zero
	if afterRebate.IsPositive() {
		cess = afterRebate.Mul(rules.CessRate)
	}

	result.TaxBeforeCess = afterRebate
	result.Cess = cess
	result.TotalTax = afterRebate.Add(cess)
	result.MarginalRate = MarginalRate(taxable, rules.Slabs)
	return result
}

// MarginalRate returns the rate of the band containing taxableIncome, i.e.
// the rate on the next rupee of income. Zero below the first band.
func MarginalRate(taxableIncome decimal.Decimal, slabs []domain.Slab) decimal.Decimal {
	taxable := domain.NonNegative(taxableIncome)
	for i, slab := range slabs {
		if taxable.LessThan(slab.Min) {
			break
		}
		if i == len(slabs)-1 || taxable.LessThan(slab.Max) {
			return slab.Rate
		}
	}
	return decimal.Zero
}
