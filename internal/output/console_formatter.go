package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/finplan/regime-calculator/internal/domain"
)

// ConsoleFormatter renders a styled terminal report for every plan.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.PlanComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, renderTitle("TAX REGIME COMPARISON  FY "+results.FinancialYear))
	if period := FinancialYearPeriod(results.FinancialYear); period != "" {
		fmt.Fprintf(&buf, "  Period: %s\n", period)
	}
	if results.Taxpayer != "" {
		fmt.Fprintf(&buf, "  Taxpayer: %s\n", valueStyle.Render(results.Taxpayer))
	}
	fmt.Fprintln(&buf)

	for _, plan := range results.Plans {
		writePlan(&buf, plan)
	}

	rec := AnalyzePlans(results)
	if rec.PlanName != "" {
		fmt.Fprintf(&buf, "  %s %s under the %s regime, total tax %s\n",
			headerStyle.Render("Recommended:"), rec.PlanName, rec.Regime, FormatRupees(rec.TotalTax))
		if len(results.Plans) > 1 && rec.SavingVsWorstPlan.IsPositive() {
			fmt.Fprintf(&buf, "  %s\n", goodStyle.Render("Saves "+FormatRupees(rec.SavingVsWorstPlan)+" over the costliest plan"))
		}
	}

	if len(results.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "  "+headerStyle.Render("Assumptions"))
		for _, a := range results.Assumptions {
			fmt.Fprintln(&buf, "  "+mutedStyle.Render("- "+a))
		}
	}
	return buf.Bytes(), nil
}

func writePlan(buf *bytes.Buffer, plan domain.PlanSummary) {
	old, nw := plan.Comparison.Old, plan.Comparison.New

	fmt.Fprint(buf, renderTable(table{
		Title:   "Plan: " + plan.Name,
		Headers: []string{"", "Old regime", "New regime"},
		Rows: [][]string{
			{"Gross income", FormatRupees(old.GrossIncome), FormatRupees(nw.GrossIncome)},
			{"Deductions", FormatRupees(old.Deductions), FormatRupees(nw.Deductions)},
			{"  of which HRA exemption", FormatRupees(plan.HRAExemption), "-"},
			{"Taxable income", FormatRupees(old.TaxableIncome), FormatRupees(nw.TaxableIncome)},
			{"---"},
			{"Slab tax", FormatRupees(old.TaxBeforeRebate), FormatRupees(nw.TaxBeforeRebate)},
			{"Rebate", FormatRupees(old.Rebate), FormatRupees(nw.Rebate)},
			{"Cess", FormatRupees(old.Cess), FormatRupees(nw.Cess)},
			{"Total tax", FormatRupees(old.TotalTax), FormatRupees(nw.TotalTax)},
			{"---"},
			{"Effective rate", FormatRate(old.EffectiveRate()), FormatRate(nw.EffectiveRate())},
			{"Marginal rate", FormatRate(old.MarginalRate), FormatRate(nw.MarginalRate)},
		},
	}))

	verdict := fmt.Sprintf("%s regime is cheaper by %s", strings.ToUpper(string(plan.Comparison.Cheaper)), FormatRupees(plan.Comparison.Difference))
	if plan.Comparison.Difference.IsZero() {
		verdict = "Both regimes cost the same; NEW regime preferred"
	}
	fmt.Fprintf(buf, "  %s\n\n", goodStyle.Render(verdict))

	if len(plan.Deductions.Sections) > 0 {
		rows := make([][]string, 0, len(plan.Deductions.Sections))
		for _, st := range plan.Deductions.Sections {
			limit := "none"
			if st.Cap != nil {
				limit = FormatRupees(*st.Cap)
			}
			rows = append(rows, []string{st.Section.String(), FormatRupees(st.Claimed), FormatRupees(st.Effective), limit, FormatRupees(st.Headroom)})
		}
		rows = append(rows, []string{"---"}, []string{"Total", "", FormatRupees(plan.Deductions.TotalEffective), "", ""})
		fmt.Fprint(buf, renderTable(table{
			Title:   "Deductions (old regime)",
			Headers: []string{"Section", "Claimed", "Allowed", "Cap", "Headroom"},
			Rows:    rows,
		}))
		fmt.Fprintln(buf)
	}

	if len(plan.Tips) > 0 {
		fmt.Fprintln(buf, "  "+headerStyle.Render("Optimisation tips"))
		for _, tip := range plan.Tips {
			fmt.Fprintf(buf, "  - %s\n", tip.Narrative)
		}
		fmt.Fprintln(buf)
	}

	be := plan.BreakEven
	switch {
	case !be.Reachable:
		fmt.Fprintf(buf, "  %s\n\n", warnStyle.Render("Old regime cannot match the new regime with more deductions"))
	case be.AdditionalDeductions.IsPositive():
		fmt.Fprintf(buf, "  %s\n\n", mutedStyle.Render(fmt.Sprintf("Break-even: %s more old regime deductions bring old tax to %s",
			FormatRupees(be.AdditionalDeductions), FormatRupees(be.OldTaxAtBreakEven))))
	}
}
