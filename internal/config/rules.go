package config

import (
	"fmt"
	"os"

	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultRules returns the built-in FY 2024-25 rule tables.
func DefaultRules() domain.TaxRules {
	return calculation.DefaultTaxRules()
}

// LoadRules reads a YAML rules file. Keys missing from the file keep their
// built-in values; a slab list in the file replaces the built-in list.
func LoadRules(filename string) (domain.TaxRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.TaxRules{}, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rule tables over the defaults and validates them.
func ParseRules(data []byte) (domain.TaxRules, error) {
	rules := DefaultRules()
	// A file's section overrides replace the defaults rather than merge into them.
	defaultOverrides := rules.Tips.SectionMinHeadroom
	rules.Tips.SectionMinHeadroom = nil
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.TaxRules{}, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidRules, err)
	}
	if rules.Tips.SectionMinHeadroom == nil {
		rules.Tips.SectionMinHeadroom = defaultOverrides
	}
	rules.Old.Regime = domain.RegimeOld
	rules.New.Regime = domain.RegimeNew

	if err := ValidateRules(rules); err != nil {
		return domain.TaxRules{}, err
	}
	return rules, nil
}

// ValidateRules checks that both regime tables are usable.
func ValidateRules(rules domain.TaxRules) error {
	if _, err := dateutil.ParseFinancialYear(rules.FinancialYear); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := validateRegime(rules.Old); err != nil {
		return fmt.Errorf("%w: old regime: %v", ErrInvalidRules, err)
	}
	if err := validateRegime(rules.New); err != nil {
		return fmt.Errorf("%w: new regime: %v", ErrInvalidRules, err)
	}
	if rules.Tips.MinSaving.IsNegative() || rules.Tips.MinHeadroom.IsNegative() {
		return fmt.Errorf("%w: tip thresholds cannot be negative", ErrInvalidRules)
	}
	seen := make(map[domain.SectionCode]string, len(rules.Tips.SectionMinHeadroom))
	for label, v := range rules.Tips.SectionMinHeadroom {
		code, err := domain.ParseSectionCode(label)
		if err != nil {
			return fmt.Errorf("%w: tips: %v", ErrInvalidRules, err)
		}
		if prev, dup := seen[code]; dup {
			return fmt.Errorf("%w: tips: %q and %q both name section %s", ErrInvalidRules, prev, label, code)
		}
		seen[code] = label
		if v.IsNegative() {
			return fmt.Errorf("%w: tips: headroom for %s cannot be negative", ErrInvalidRules, label)
		}
	}
	return nil
}

// validateRegime requires bands that start at zero, ascend without gaps and
// end with an open band.
func validateRegime(r domain.RegimeRules) error {
	one := decimal.NewFromInt(1)

	if len(r.Slabs) == 0 {
		return fmt.Errorf("at least one slab is required")
	}
	if !r.Slabs[0].Min.IsZero() {
		return fmt.Errorf("first slab must start at 0, got %s", r.Slabs[0].Min)
	}
	for i, slab := range r.Slabs {
		if slab.Rate.IsNegative() || slab.Rate.GreaterThan(one) {
			return fmt.Errorf("slab %d: rate %s must be between 0 and 1", i, slab.Rate)
		}
		if i > 0 && !slab.Min.Equal(r.Slabs[i-1].Max) {
			return fmt.Errorf("slab %d: starts at %s but previous slab ends at %s", i, slab.Min, r.Slabs[i-1].Max)
		}
		if i < len(r.Slabs)-1 && !slab.Max.GreaterThan(slab.Min) {
			return fmt.Errorf("slab %d: upper bound %s must exceed lower bound %s", i, slab.Max, slab.Min)
		}
	}

	if r.StandardDeduction.IsNegative() {
		return fmt.Errorf("standard deduction cannot be negative")
	}
	if r.CessRate.IsNegative() || r.CessRate.GreaterThan(one) {
		return fmt.Errorf("cess rate %s must be between 0 and 1", r.CessRate)
	}
	if r.Rebate.Enabled && (r.Rebate.Threshold.IsNegative() || r.Rebate.Max.IsNegative()) {
		return fmt.Errorf("rebate threshold and maximum cannot be negative")
	}
	return nil
}
