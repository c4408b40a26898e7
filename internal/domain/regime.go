package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Regime names one of the two mutually exclusive statutory tax regimes.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// ParseRegime accepts "old" or "new" in any case.
func ParseRegime(s string) (Regime, error) {
	switch Regime(strings.ToLower(strings.TrimSpace(s))) {
	case RegimeOld:
		return RegimeOld, nil
	case RegimeNew:
		return RegimeNew, nil
	}
	return "", fmt.Errorf("unknown tax regime %q", s)
}

// Slab is one band of a progressive rate table. Bands are half-open
// [Min, Max); Max of the last band in a table is ignored (open-ended).
type Slab struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// RebateRule forgives tax up to Max when taxable income is at or below Threshold.
type RebateRule struct {
	Enabled   bool            `yaml:"enabled" json:"enabled"`
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Max       decimal.Decimal `yaml:"max" json:"max"`
}

// RegimeRules is the complete rule set of one regime.
type RegimeRules struct {
	Regime            Regime          `yaml:"regime" json:"regime"`
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	Slabs             []Slab          `yaml:"slabs" json:"slabs"`
	Rebate            RebateRule      `yaml:"rebate" json:"rebate"`
	CessRate          decimal.Decimal `yaml:"cess_rate" json:"cess_rate"`
	// ItemisedDeductions allows chapter VI-A deductions and the HRA exemption.
	ItemisedDeductions bool `yaml:"itemised_deductions" json:"itemised_deductions"`
}

// TipPolicy holds the materiality thresholds for optimisation tips.
type TipPolicy struct {
	MinSaving   decimal.Decimal `yaml:"min_saving" json:"min_saving"`
	MinHeadroom decimal.Decimal `yaml:"min_headroom" json:"min_headroom"`
	// SectionMinHeadroom overrides MinHeadroom, keyed by section label.
	SectionMinHeadroom map[string]decimal.Decimal `yaml:"section_min_headroom,omitempty" json:"section_min_headroom,omitempty"`
}

// HeadroomThreshold returns the minimum headroom for the section. Labels are
// checked in sorted order so the result is stable even for a policy that
// names one section twice.
func (tp TipPolicy) HeadroomThreshold(section SectionCode) decimal.Decimal {
	labels := make([]string, 0, len(tp.SectionMinHeadroom))
	for label := range tp.SectionMinHeadroom {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if code, err := ParseSectionCode(label); err == nil && code == section {
			return tp.SectionMinHeadroom[label]
		}
	}
	return tp.MinHeadroom
}

// TaxRules contains the regime tables for one financial year.
// Loaded from a rules YAML file or taken from the built-in defaults.
type TaxRules struct {
	FinancialYear string      `yaml:"financial_year" json:"financial_year"`
	Old           RegimeRules `yaml:"old_regime" json:"old_regime"`
	New           RegimeRules `yaml:"new_regime" json:"new_regime"`
	Tips          TipPolicy   `yaml:"tips" json:"tips"`
}

// For returns the rules of the given regime.
func (r TaxRules) For(regime Regime) RegimeRules {
	if regime == RegimeOld {
		return r.Old
	}
	return r.New
}
