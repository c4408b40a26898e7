package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"rupees": FormatRupees,
	"rate":   FormatRate,
	"upper":  func(r domain.Regime) string { return strings.ToUpper(string(r)) },
	"bound": func(d *decimal.Decimal) string {
		if d == nil {
			return "and above"
		}
		return FormatRupees(*d)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.PlanComparison) ([]byte, error) {
	var buf bytes.Buffer

	// Use assumptions from results if available, otherwise fall back to defaults
	assumptions := results.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}

	data := struct {
		*domain.PlanComparison
		Recommendation Recommendation
		Assumptions    []string
	}{results, AnalyzePlans(results), assumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
