package calculation

import (
	"context"
	"fmt"

	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine compares the two regimes for a snapshot of inputs.
// It holds no per-call state and is safe for concurrent use once built.
type CalculationEngine struct {
	Rules   domain.TaxRules
	OldCalc *RegimeTaxCalculator
	NewCalc *RegimeTaxCalculator
	Logger  Logger
}

// NewCalculationEngine creates a calculation engine with the built-in rules
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithRules(DefaultTaxRules())
}

// NewCalculationEngineWithRules creates a calculation engine for the given rule tables
func NewCalculationEngineWithRules(rules domain.TaxRules) *CalculationEngine {
	return &CalculationEngine{
		Rules:   rules,
		OldCalc: NewRegimeTaxCalculator(rules.Old),
		NewCalc: NewRegimeTaxCalculator(rules.New),
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// evaluation carries the intermediate figures of one comparison so that
// tips and break-even reuse them instead of recomputing.
type evaluation struct {
	gross        decimal.Decimal
	deductions   domain.DeductionSummary
	hraExemption decimal.Decimal
	comparison   domain.ComparisonResult
}

func (ce *CalculationEngine) evaluate(income domain.IncomeProfile, deductions []domain.DeductionItem, hra domain.HRAInputs) evaluation {
	ev := evaluation{
		gross:        income.Gross(),
		deductions:   AggregateDeductions(deductions),
		hraExemption: ComputeHRAExemption(hra),
	}
	itemised := ev.deductions.TotalEffective.Add(ev.hraExemption)

	oldResult := ce.regimeResult(ce.OldCalc, ev.gross, itemised)
	newResult := ce.regimeResult(ce.NewCalc, ev.gross, itemised)

	// An exact tie resolves to the new regime.
	cheaper := domain.RegimeNew
	if oldResult.TotalTax.LessThan(newResult.TotalTax) {
		cheaper = domain.RegimeOld
	}

	ev.comparison = domain.ComparisonResult{
		Old:        oldResult,
		New:        newResult,
		Cheaper:    cheaper,
		Difference: oldResult.TotalTax.Sub(newResult.TotalTax).Abs(),
	}
	return ev
}

// regimeResult reduces gross income by the regime's standard deduction and,
// where the regime allows them, the itemised deductions and HRA exemption.
func (ce *CalculationEngine) regimeResult(calc *RegimeTaxCalculator, gross, itemised decimal.Decimal) domain.RegimeResult {
	pool := domain.NonNegative(calc.Rules.StandardDeduction)
	if calc.Rules.ItemisedDeductions {
		pool = pool.Add(itemised)
	}
	result := calc.Calculate(domain.NonNegative(gross.Sub(pool)))
	result.GrossIncome = gross
	result.Deductions = pool
	return result
}

// CompareRegimes computes tax under both regimes and picks the cheaper one.
func (ce *CalculationEngine) CompareRegimes(income domain.IncomeProfile, deductions []domain.DeductionItem, hra domain.HRAInputs) domain.ComparisonResult {
	return ce.evaluate(income, deductions, hra).comparison
}

// GenerateTips returns the ranked optimisation tips for the inputs. Tips are
// derived from the old regime marginal rate and are rebuilt on every call.
func (ce *CalculationEngine) GenerateTips(income domain.IncomeProfile, deductions []domain.DeductionItem, hra domain.HRAInputs) []domain.OptimizationTip {
	ev := ce.evaluate(income, deductions, hra)
	return buildTips(ev.deductions, ev.comparison.Old.MarginalRate, ce.Rules.Tips)
}

// CompareWithTips returns the comparison and its tips from a single
// evaluation of the inputs.
func (ce *CalculationEngine) CompareWithTips(income domain.IncomeProfile, deductions []domain.DeductionItem, hra domain.HRAInputs) (domain.ComparisonResult, []domain.OptimizationTip) {
	ev := ce.evaluate(income, deductions, hra)
	return ev.comparison, buildTips(ev.deductions, ev.comparison.Old.MarginalRate, ce.Rules.Tips)
}

// RunPlan computes the full summary for one plan.
func (ce *CalculationEngine) RunPlan(plan domain.Plan) domain.PlanSummary {
	ev := ce.evaluate(plan.Income, plan.Deductions, plan.HRA)
	summary := domain.PlanSummary{
		Name:         plan.Name,
		Income:       plan.Income,
		HRAExemption: ev.hraExemption,
		Deductions:   ev.deductions,
		Comparison:   ev.comparison,
		Tips:         buildTips(ev.deductions, ev.comparison.Old.MarginalRate, ce.Rules.Tips),
		BreakEven:    ce.breakEven(ev.comparison),
	}
	if summary.Tips == nil {
		summary.Tips = []domain.OptimizationTip{}
	}

	ce.Logger.Debugf("plan %q: gross=%s old=%s new=%s cheaper=%s tips=%d",
		plan.Name, ev.gross.String(), ev.comparison.Old.TotalTax.StringFixed(2),
		ev.comparison.New.TotalTax.StringFixed(2), ev.comparison.Cheaper, len(summary.Tips))
	return summary
}

// RunPlans runs every plan of a configuration and recommends the plan whose
// cheaper regime yields the lowest tax. Ties keep the earlier plan.
func (ce *CalculationEngine) RunPlans(ctx context.Context, config *domain.Configuration) (*domain.PlanComparison, error) {
	if config == nil || len(config.Plans) == 0 {
		return nil, fmt.Errorf("no plans to compare")
	}

	comparison := &domain.PlanComparison{
		Taxpayer:      config.Taxpayer,
		FinancialYear: ce.Rules.FinancialYear,
		Plans:         make([]domain.PlanSummary, 0, len(config.Plans)),
	}

	var best decimal.Decimal
	for i, plan := range config.Plans {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run plans: %w", err)
		}
		summary := ce.RunPlan(plan)
		comparison.Plans = append(comparison.Plans, summary)

		total := summary.Comparison.Best().TotalTax
		if i == 0 || total.LessThan(best) {
			best = total
			comparison.Recommended = summary.Name
		}
	}

	ce.Logger.Infof("compared %d plan(s), recommended %q", len(comparison.Plans), comparison.Recommended)
	return comparison, nil
}
