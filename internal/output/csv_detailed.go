package output

import (
	"bytes"
	"encoding/csv"

	"github.com/finplan/regime-calculator/internal/domain"
)

// CSVDetailedExporter writes the slab breakdown, one row per plan, regime and band.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.PlanComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Plan", "Regime", "Band", "Lower", "Upper", "Rate", "TaxedAmount", "Tax"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, plan := range results.Plans {
		for _, r := range []domain.RegimeResult{plan.Comparison.Old, plan.Comparison.New} {
			for i, band := range r.Slabs {
				upper := ""
				if band.Upper != nil {
					upper = band.Upper.StringFixed(2)
				}
				row := []string{
					plan.Name,
					string(r.Regime),
					intToString(i + 1),
					band.Lower.StringFixed(2),
					upper,
					band.Rate.StringFixed(2),
					band.Taxed.StringFixed(2),
					band.Tax.StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
