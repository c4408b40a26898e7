package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSectionCode(t *testing.T) {
	tests := []struct {
		input    string
		expected SectionCode
	}{
		{"80C", Section80C},
		{"80c", Section80C},
		{"80CCD(1B)", Section80CCD1B},
		{"80ccd1b", Section80CCD1B},
		{"80D", Section80D},
		{"80D (parents)", Section80DParents},
		{"80d parents", Section80DParents},
		{"80DDB", Section80DDB},
		{"80E", Section80E},
		{"80G", Section80G},
		{"80TTA", Section80TTA},
		{"24(b)", Section24B},
		{"24B", Section24B},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, err := ParseSectionCode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, code)
		})
	}

	_, err := ParseSectionCode("80Z")
	assert.Error(t, err)
	_, err = ParseSectionCode("")
	assert.Error(t, err)
}

func TestSectionCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, info := range Sections() {
		assert.True(t, info.Code.Valid(), info.Label)
		assert.False(t, seen[info.Code.Slug()], "duplicate slug %s", info.Code.Slug())
		seen[info.Code.Slug()] = true

		if info.Policy == CapNone {
			assert.True(t, info.Cap.IsZero(), "%s has no cap", info.Label)
		} else {
			assert.True(t, info.Cap.IsPositive(), "%s needs a positive cap", info.Label)
		}

		parsed, err := ParseSectionCode(info.Label)
		require.NoError(t, err)
		assert.Equal(t, info.Code, parsed)
	}

	assert.False(t, SectionUnknown.Valid())
	assert.Equal(t, "unknown", SectionUnknown.String())
	assert.Equal(t, "80ccd1b", Section80CCD1B.Slug())
	assert.Equal(t, "24b", Section24B.Slug())
	assert.Equal(t, "per_group", CapPerGroup.String())
	assert.Equal(t, "per_item", CapPerItem.String())
	assert.Equal(t, "none", CapNone.String())
}

func TestDeductionItemEffective(t *testing.T) {
	capAmount := decimal.NewFromInt(30000)
	tests := []struct {
		name     string
		item     DeductionItem
		expected int64
	}{
		{"eligible uncapped", DeductionItem{Section: Section80C, Claimed: decimal.NewFromInt(200000), Eligible: true}, 200000},
		{"ineligible", DeductionItem{Section: Section80C, Claimed: decimal.NewFromInt(50000)}, 0},
		{"explicit cap", DeductionItem{Section: Section80G, Claimed: decimal.NewFromInt(50000), Cap: &capAmount, Eligible: true}, 30000},
		{"per-item section cap", DeductionItem{Section: Section80DDB, Claimed: decimal.NewFromInt(100000), Eligible: true}, 40000},
		{"negative claim", DeductionItem{Section: Section80E, Claimed: decimal.NewFromInt(-10), Eligible: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.Effective()
			assert.Truef(t, got.Equal(decimal.NewFromInt(tt.expected)), "expected %d, got %s", tt.expected, got)
		})
	}
}

func TestDeductionItemYAML(t *testing.T) {
	src := `
- name: PPF
  section: 80C
  claimed: 120000
- name: Parents mediclaim
  section: "80D(parents)"
  claimed: "45000.50"
  cap: 40000
  eligible: false
`
	var items []DeductionItem
	require.NoError(t, yaml.Unmarshal([]byte(src), &items))
	require.Len(t, items, 2)

	assert.Equal(t, "PPF", items[0].Name)
	assert.Equal(t, Section80C, items[0].Section)
	assert.True(t, items[0].Claimed.Equal(decimal.NewFromInt(120000)))
	assert.True(t, items[0].Eligible, "eligible defaults to true")
	assert.Nil(t, items[0].Cap)

	assert.Equal(t, Section80DParents, items[1].Section)
	assert.True(t, items[1].Claimed.Equal(decimal.RequireFromString("45000.50")))
	require.NotNil(t, items[1].Cap)
	assert.True(t, items[1].Cap.Equal(decimal.NewFromInt(40000)))
	assert.False(t, items[1].Eligible)
}

func TestDeductionItemYAMLErrors(t *testing.T) {
	var items []DeductionItem
	assert.Error(t, yaml.Unmarshal([]byte("- {name: x, section: 80Q, claimed: 1}"), &items))
	assert.Error(t, yaml.Unmarshal([]byte("- {name: x, section: 80C, claimed: lots}"), &items))
	assert.Error(t, yaml.Unmarshal([]byte("- {name: x, section: 80C, claimed: 1, cap: none}"), &items))
}

func TestDeductionItemJSON(t *testing.T) {
	var item DeductionItem
	require.NoError(t, json.Unmarshal([]byte(`{"name":"NPS","section":"80CCD(1B)","claimed":"50000"}`), &item))
	assert.Equal(t, Section80CCD1B, item.Section)
	assert.True(t, item.Eligible)
	assert.True(t, item.Claimed.Equal(decimal.NewFromInt(50000)))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"NPS","section":"80ccd1b","claimed":50000,"eligible":false}`), &item))
	assert.False(t, item.Eligible)

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"section":"80CCD(1B)"`)

	assert.Error(t, json.Unmarshal([]byte(`{"section":"nope"}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"name":"PPF","section":"80C","claimd":150000}`), &item), "unknown keys are rejected")
	_, err = json.Marshal(DeductionItem{Section: SectionUnknown})
	assert.Error(t, err)
}

func TestIncomeGrossClampsHeads(t *testing.T) {
	p := IncomeProfile{
		Salary:       decimal.NewFromInt(1000000),
		OtherIncome:  decimal.NewFromInt(-50000),
		CapitalGains: decimal.NewFromInt(20000),
	}
	assert.True(t, p.Gross().Equal(decimal.NewFromInt(1020000)))
}

func TestParseRegime(t *testing.T) {
	r, err := ParseRegime(" OLD ")
	require.NoError(t, err)
	assert.Equal(t, RegimeOld, r)

	r, err = ParseRegime("new")
	require.NoError(t, err)
	assert.Equal(t, RegimeNew, r)

	_, err = ParseRegime("flat")
	assert.Error(t, err)
}

func TestTipPolicyHeadroomThreshold(t *testing.T) {
	policy := TipPolicy{
		MinHeadroom:        decimal.NewFromInt(5000),
		SectionMinHeadroom: map[string]decimal.Decimal{"80c": decimal.NewFromInt(10000)},
	}
	assert.True(t, policy.HeadroomThreshold(Section80C).Equal(decimal.NewFromInt(10000)))
	assert.True(t, policy.HeadroomThreshold(Section80D).Equal(decimal.NewFromInt(5000)))
}

func TestComparisonBest(t *testing.T) {
	cmp := ComparisonResult{
		Old:     RegimeResult{Regime: RegimeOld, TotalTax: decimal.NewFromInt(10)},
		New:     RegimeResult{Regime: RegimeNew, TotalTax: decimal.NewFromInt(20)},
		Cheaper: RegimeOld,
	}
	assert.Equal(t, RegimeOld, cmp.Best().Regime)
	cmp.Cheaper = RegimeNew
	assert.Equal(t, RegimeNew, cmp.Best().Regime)

	r := RegimeResult{GrossIncome: decimal.NewFromInt(1000000), TotalTax: decimal.NewFromInt(71500)}
	assert.True(t, r.EffectiveRate().Equal(decimal.RequireFromString("0.0715")))
	assert.True(t, RegimeResult{}.EffectiveRate().IsZero())
}

func TestHeadroomThresholdIsStable(t *testing.T) {
	policy := TipPolicy{
		MinHeadroom: decimal.NewFromInt(5000),
		SectionMinHeadroom: map[string]decimal.Decimal{
			"80c":   decimal.NewFromInt(20000),
			"80C":   decimal.NewFromInt(10000),
			"24(b)": decimal.NewFromInt(15000),
		},
	}
	for i := 0; i < 20; i++ {
		assert.True(t, policy.HeadroomThreshold(Section80C).Equal(decimal.NewFromInt(10000)), "sorted labels put 80C first")
	}
	assert.True(t, policy.HeadroomThreshold(Section24B).Equal(decimal.NewFromInt(15000)))
	assert.True(t, policy.HeadroomThreshold(Section80D).Equal(decimal.NewFromInt(5000)))
}
