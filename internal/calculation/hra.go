package calculation

import (
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hraRentOffsetRate = decimal.NewFromFloat(0.10)
	hraMetroRate      = decimal.NewFromFloat(0.50)
	hraNonMetroRate   = decimal.NewFromFloat(0.40)
)

// ComputeHRAExemption returns the least of
//   - HRA actually received,
//   - rent paid in excess of 10% of basic salary,
//   - 50% of basic salary in a metro city, 40% elsewhere.
//
// It is zero when basic, HRA received or rent paid is not positive. The
// exemption only reduces old regime taxable income.
func ComputeHRAExemption(in domain.HRAInputs) decimal.Decimal {
	if !in.BasicSalary.IsPositive() || !in.HRAReceived.IsPositive() || !in.RentPaid.IsPositive() {
		return decimal.Zero
	}

	rentExcess := domain.NonNegative(in.RentPaid.Sub(in.BasicSalary.Mul(hraRentOffsetRate)))

	rate := hraNonMetroRate
	if in.MetroCity {
		rate = hraMetroRate
	}
	salaryLimit := in.BasicSalary.Mul(rate)

	return decimal.Min(in.HRAReceived, rentExcess, salaryLimit)
}
