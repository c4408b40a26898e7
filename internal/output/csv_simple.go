package output

import (
	"bytes"
	"encoding/csv"

	"github.com/finplan/regime-calculator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per plan and regime).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.PlanComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Plan", "Regime", "GrossIncome", "Deductions", "TaxableIncome", "TaxBeforeRebate", "Rebate", "Cess", "TotalTax", "EffectiveRate", "MarginalRate", "Cheaper", "Recommended"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, plan := range results.Plans {
		for _, r := range []domain.RegimeResult{plan.Comparison.Old, plan.Comparison.New} {
			row := []string{
				plan.Name,
				string(r.Regime),
				r.GrossIncome.StringFixed(2),
				r.Deductions.StringFixed(2),
				r.TaxableIncome.StringFixed(2),
				r.TaxBeforeRebate.StringFixed(2),
				r.Rebate.StringFixed(2),
				r.Cess.StringFixed(2),
				r.TotalTax.StringFixed(2),
				r.EffectiveRate().StringFixed(4),
				r.MarginalRate.StringFixed(2),
				boolToString(r.Regime == plan.Comparison.Cheaper),
				boolToString(plan.Name == results.Recommended),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
