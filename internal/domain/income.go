package domain

import (
	"github.com/shopspring/decimal"
)

// IncomeProfile holds the annual income heads of a taxpayer. Amounts are whole
// rupees; negative values are treated as zero by every calculation.
type IncomeProfile struct {
	Salary       decimal.Decimal `yaml:"salary" json:"salary"`
	OtherIncome  decimal.Decimal `yaml:"other_income" json:"other_income"`   // interest, rental, freelance
	CapitalGains decimal.Decimal `yaml:"capital_gains" json:"capital_gains"` // taxed at slab rates, no holding-period split
}

// Gross returns salary + other income + capital gains with each head clamped at zero.
func (p IncomeProfile) Gross() decimal.Decimal {
	return NonNegative(p.Salary).Add(NonNegative(p.OtherIncome)).Add(NonNegative(p.CapitalGains))
}

// HRAInputs are the house rent allowance figures used for the old regime exemption
type HRAInputs struct {
	BasicSalary decimal.Decimal `yaml:"basic_salary" json:"basic_salary"`
	HRAReceived decimal.Decimal `yaml:"hra_received" json:"hra_received"`
	RentPaid    decimal.Decimal `yaml:"rent_paid" json:"rent_paid"`
	MetroCity   bool            `yaml:"metro_city" json:"metro_city"`
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
