package domain

import (
	"github.com/shopspring/decimal"
)

// Plan is one named snapshot of a taxpayer's inputs. A plan file may carry
// several plans to compare what-if variants side by side.
type Plan struct {
	Name       string          `yaml:"name" json:"name"`
	Income     IncomeProfile   `yaml:"income" json:"income"`
	HRA        HRAInputs       `yaml:"hra" json:"hra"`
	Deductions []DeductionItem `yaml:"deductions" json:"deductions"`
}

// Configuration is the top level of a plan file.
type Configuration struct {
	Taxpayer string `yaml:"taxpayer,omitempty" json:"taxpayer,omitempty"`
	// RulesFile optionally points at a YAML rules file, relative to the plan file.
	RulesFile string `yaml:"rules_file,omitempty" json:"rules_file,omitempty"`
	Plans     []Plan `yaml:"plans" json:"plans"`
}

// BreakEven describes the extra old-regime deductions at which the old
// regime stops being more expensive than the new one.
type BreakEven struct {
	// Reachable is false when even zero old-regime taxable income cannot beat
	// the new regime.
	Reachable bool `json:"reachable"`
	// AdditionalDeductions is zero when the old regime is already no more expensive.
	AdditionalDeductions decimal.Decimal `json:"additional_deductions"`
	OldTaxAtBreakEven    decimal.Decimal `json:"old_tax_at_break_even"`
	NewTax               decimal.Decimal `json:"new_tax"`
}

// PlanSummary is the full computed output for one plan.
type PlanSummary struct {
	Name         string            `json:"name"`
	Income       IncomeProfile     `json:"income"`
	HRAExemption decimal.Decimal   `json:"hra_exemption"`
	Deductions   DeductionSummary  `json:"deductions"`
	Comparison   ComparisonResult  `json:"comparison"`
	Tips         []OptimizationTip `json:"tips"`
	BreakEven    BreakEven         `json:"break_even"`
}

// PlanComparison is the output of running every plan in a configuration.
type PlanComparison struct {
	Taxpayer      string        `json:"taxpayer,omitempty"`
	FinancialYear string        `json:"financial_year"`
	Plans         []PlanSummary `json:"plans"`
	// Recommended names the plan whose cheaper regime has the lowest total tax.
	Recommended string `json:"recommended"`
	// Assumptions describes the rule tables used, for report footers.
	Assumptions []string `json:"assumptions,omitempty"`
}
