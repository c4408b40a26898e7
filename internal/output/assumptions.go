package output

import (
	"fmt"
	"strings"

	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/domain"
)

// DefaultAssumptions lists the built-in rule assumptions rendered in detailed outputs.
var DefaultAssumptions = GenerateAssumptions(calculation.DefaultTaxRules())

// GenerateAssumptions creates the assumptions list from the rule tables in use.
func GenerateAssumptions(rules domain.TaxRules) []string {
	return []string{
		fmt.Sprintf("Financial year %s, individual below 60 years", rules.FinancialYear),
		describeRegime("Old regime", rules.Old),
		describeRegime("New regime", rules.New),
		fmt.Sprintf("Health and education cess: %s of tax after rebate", FormatRate(rules.Old.CessRate)),
		"Surcharge is not applied; capital gains are taxed at slab rates",
	}
}

func describeRegime(title string, r domain.RegimeRules) string {
	bands := make([]string, 0, len(r.Slabs))
	for i, slab := range r.Slabs {
		if i == len(r.Slabs)-1 {
			bands = append(bands, fmt.Sprintf("%s above %s", FormatRate(slab.Rate), FormatRupees(slab.Min)))
			continue
		}
		bands = append(bands, fmt.Sprintf("%s to %s", FormatRate(slab.Rate), FormatRupees(slab.Max)))
	}

	line := fmt.Sprintf("%s: standard deduction %s; slabs %s", title, FormatRupees(r.StandardDeduction), strings.Join(bands, ", "))
	if r.Rebate.Enabled {
		line += fmt.Sprintf("; rebate up to %s when taxable income is at most %s", FormatRupees(r.Rebate.Max), FormatRupees(r.Rebate.Threshold))
	}
	if !r.ItemisedDeductions {
		line += "; no itemised deductions or HRA exemption"
	}
	return line
}
