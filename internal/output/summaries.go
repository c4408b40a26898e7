package output

import (
	"strings"

	"github.com/finplan/regime-calculator/internal/domain"
)

// RenderTips renders the ranked optimisation tips of every plan.
func RenderTips(results *domain.PlanComparison) string {
	var b strings.Builder
	b.WriteString(renderTitle("OPTIMISATION TIPS  FY " + results.FinancialYear))
	b.WriteString("\n\n")

	for _, plan := range results.Plans {
		if len(plan.Tips) == 0 {
			b.WriteString("  " + headerStyle.Render("Plan: "+plan.Name) + "\n")
			b.WriteString("  " + mutedStyle.Render("No deduction headroom worth acting on") + "\n\n")
			continue
		}
		rows := make([][]string, 0, len(plan.Tips))
		for i, tip := range plan.Tips {
			rows = append(rows, []string{
				intToString(i + 1),
				tip.Section.String(),
				FormatRupees(tip.Headroom),
				FormatRate(tip.MarginalRate),
				FormatRupees(tip.ProjectedSaving),
			})
		}
		b.WriteString(renderTable(table{
			Title:   "Plan: " + plan.Name,
			Headers: []string{"#", "Section", "Headroom", "Rate", "Saving"},
			Rows:    rows,
		}))
		for _, tip := range plan.Tips {
			b.WriteString("  " + mutedStyle.Render("- "+tip.Narrative) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderBreakEven renders one row per plan with the extra old regime
// deductions needed to match the new regime.
func RenderBreakEven(results *domain.PlanComparison) string {
	rows := make([][]string, 0, len(results.Plans))
	for _, plan := range results.Plans {
		be := plan.BreakEven
		extra := FormatRupees(be.AdditionalDeductions)
		oldAt := FormatRupees(be.OldTaxAtBreakEven)
		if !be.Reachable {
			extra, oldAt = "unreachable", "-"
		}
		rows = append(rows, []string{
			plan.Name,
			FormatRupees(plan.Comparison.Old.TotalTax),
			FormatRupees(be.NewTax),
			extra,
			oldAt,
		})
	}

	var b strings.Builder
	b.WriteString(renderTitle("BREAK-EVEN DEDUCTIONS  FY " + results.FinancialYear))
	b.WriteString("\n\n")
	b.WriteString(renderTable(table{
		Headers: []string{"Plan", "Old tax", "New tax", "Extra deductions", "Old tax then"},
		Rows:    rows,
	}))
	return b.String()
}
