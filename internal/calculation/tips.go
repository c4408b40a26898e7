package calculation

import (
	"fmt"
	"sort"

	"github.com/finplan/regime-calculator/internal/domain"
	money "github.com/finplan/regime-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// buildTips derives one tip per capped section with material headroom.
// Sections no item names still count, with the whole cap as headroom.
func buildTips(summary domain.DeductionSummary, marginalRate decimal.Decimal, policy domain.TipPolicy) []domain.OptimizationTip {
	var tips []domain.OptimizationTip
	if !marginalRate.IsPositive() {
		return tips
	}

	for _, info := range domain.Sections() {
		if info.Policy != domain.CapPerGroup {
			continue
		}

		headroom := info.Cap
		if st, ok := summary.Section(info.Code); ok {
			headroom = st.Headroom
		}
		if headroom.LessThan(policy.HeadroomThreshold(info.Code)) {
			continue
		}

		saving := headroom.Mul(marginalRate)
		if !saving.GreaterThan(policy.MinSaving) {
			continue
		}

		tips = append(tips, domain.OptimizationTip{
			ID:              "tip-" + info.Code.Slug(),
			Section:         info.Code,
			Narrative:       tipNarrative(info, headroom, marginalRate, saving),
			Headroom:        headroom,
			MarginalRate:    marginalRate,
			ProjectedSaving: saving,
		})
	}

	// catalog order breaks ties
	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].ProjectedSaving.GreaterThan(tips[j].ProjectedSaving)
	})
	return tips
}

func tipNarrative(info domain.SectionInfo, headroom, rate, saving decimal.Decimal) string {
	return fmt.Sprintf("Claim %s more under section %s (%s) to save about %s at your %s%% old regime marginal rate.",
		money.NewMoneyFromDecimal(headroom).Format(),
		info.Label,
		info.Examples,
		money.NewMoneyFromDecimal(saving).Format(),
		rate.Mul(decimal.NewFromInt(100)).String(),
	)
}
