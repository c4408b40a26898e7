package domain

import (
	"github.com/shopspring/decimal"
)

// SlabBand is one line of a regime's slab breakdown. Upper is nil for the
// open-ended top band.
type SlabBand struct {
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
	Rate  decimal.Decimal  `json:"rate"`
	Taxed decimal.Decimal  `json:"taxed"`
	Tax   decimal.Decimal  `json:"tax"`
}

// RegimeResult is the computed tax under one regime.
type RegimeResult struct {
	Regime          Regime          `json:"regime"`
	GrossIncome     decimal.Decimal `json:"gross_income"`
	Deductions      decimal.Decimal `json:"deductions"` // standard deduction + itemised + HRA
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	Slabs           []SlabBand      `json:"slabs"`
	TaxBeforeRebate decimal.Decimal `json:"tax_before_rebate"`
	Rebate          decimal.Decimal `json:"rebate"`
	TaxBeforeCess   decimal.Decimal `json:"tax_before_cess"`
	Cess            decimal.Decimal `json:"cess"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	MarginalRate    decimal.Decimal `json:"marginal_rate"`
}

// EffectiveRate returns total tax as a fraction of gross income.
func (r RegimeResult) EffectiveRate() decimal.Decimal {
	if !r.GrossIncome.IsPositive() {
		return decimal.Zero
	}
	return r.TotalTax.Div(r.GrossIncome)
}

// ComparisonResult holds both regime results and the cheaper of the two.
type ComparisonResult struct {
	Old        RegimeResult    `json:"old"`
	New        RegimeResult    `json:"new"`
	Cheaper    Regime          `json:"cheaper_regime"`
	Difference decimal.Decimal `json:"difference"`
}

// Best returns the result of the cheaper regime.
func (c ComparisonResult) Best() RegimeResult {
	if c.Cheaper == RegimeOld {
		return c.Old
	}
	return c.New
}

// SectionTotal is the aggregated contribution of one deduction section.
type SectionTotal struct {
	Section   SectionCode      `json:"section"`
	Policy    string           `json:"cap_policy"`
	Claimed   decimal.Decimal  `json:"claimed"`   // eligible items after item caps, before the group cap
	Effective decimal.Decimal  `json:"effective"` // contribution to the deduction pool
	Cap       *decimal.Decimal `json:"cap,omitempty"`
	Headroom  decimal.Decimal  `json:"headroom"` // zero for uncapped sections
	Items     int              `json:"items"`
}

// DeductionSummary is the output of the deduction aggregator.
type DeductionSummary struct {
	TotalEffective decimal.Decimal `json:"total_effective"`
	Sections       []SectionTotal  `json:"sections"`
}

// Section returns the total for the given section, if any item used it.
func (s DeductionSummary) Section(code SectionCode) (SectionTotal, bool) {
	for _, st := range s.Sections {
		if st.Section == code {
			return st, true
		}
	}
	return SectionTotal{}, false
}

// OptimizationTip is a derived "you could save X by doing Y" suggestion.
type OptimizationTip struct {
	ID              string          `json:"id"`
	Section         SectionCode     `json:"section"`
	Narrative       string          `json:"narrative"`
	Headroom        decimal.Decimal `json:"headroom"`
	MarginalRate    decimal.Decimal `json:"marginal_rate"`
	ProjectedSaving decimal.Decimal `json:"projected_saving"`
}
