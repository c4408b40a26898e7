package output

import (
	"strconv"
	"time"

	"github.com/finplan/regime-calculator/pkg/dateutil"
	money "github.com/finplan/regime-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatRupees formats an amount as whole rupees with Indian digit grouping.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatRupees(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal that is already a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.3) as a percentage ("30.00%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

// FinancialYearPeriod describes the span and assessment year of a financial
// year label, e.g. "1 Apr 2024 to 31 Mar 2025, AY 2025-26". Unparseable
// labels yield "".
func FinancialYearPeriod(financialYear string) string {
	start, err := dateutil.ParseFinancialYear(financialYear)
	if err != nil {
		return ""
	}
	date := time.Date(start, time.April, 1, 0, 0, 0, 0, time.UTC)
	return dateutil.FinancialYearStart(date).Format("2 Jan 2006") + " to " +
		dateutil.FinancialYearEnd(date).Format("2 Jan 2006") + ", " +
		dateutil.AssessmentYearLabel(date)
}
