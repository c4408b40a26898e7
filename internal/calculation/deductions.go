package calculation

import (
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// AggregateDeductions groups items by section and applies each section's cap
// policy. Per-item limits are applied first; per-group sections then clamp
// the section total. Sections are returned in catalog order and only when at
// least one item names them. Items with an unknown section are ignored.
func AggregateDeductions(items []domain.DeductionItem) domain.DeductionSummary {
	claimed := make(map[domain.SectionCode]decimal.Decimal)
	counts := make(map[domain.SectionCode]int)
	for _, item := range items {
		if !item.Section.Valid() {
			continue
		}
		counts[item.Section]++
		sum, ok := claimed[item.Section]
		if !ok {
			sum = decimal.Zero
		}
		claimed[item.Section] = sum.Add(item.Effective())
	}

	summary := domain.DeductionSummary{TotalEffective: decimal.Zero, Sections: []domain.SectionTotal{}}
	for _, info := range domain.Sections() {
		n, used := counts[info.Code]
		if !used {
			continue
		}
		st := sectionTotal(info, claimed[info.Code])
		st.Items = n
		summary.Sections = append(summary.Sections, st)
		summary.TotalEffective = summary.TotalEffective.Add(st.Effective)
	}
	return summary
}

func sectionTotal(info domain.SectionInfo, claimed decimal.Decimal) domain.SectionTotal {
	st := domain.SectionTotal{
		Section:   info.Code,
		Policy:    info.Policy.String(),
		Claimed:   claimed,
		Effective: claimed,
		Headroom:  decimal.Zero,
	}
	switch info.Policy {
	case domain.CapPerGroup:
		capAmount := info.Cap
		st.Cap = &capAmount
		st.Effective = decimal.Min(claimed, capAmount)
		st.Headroom = domain.NonNegative(capAmount.Sub(st.Effective))
	case domain.CapPerItem:
		capAmount := info.Cap
		st.Cap = &capAmount
	}
	return st
}
