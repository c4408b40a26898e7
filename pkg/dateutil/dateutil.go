package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Indian financial years run from 1 April to 31 March.
const fyStartMonth = time.April

// FinancialYearOf returns the calendar year in which the financial year
// containing date starts
func FinancialYearOf(date time.Time) int {
	if date.Month() < fyStartMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// FinancialYearStart returns 1 April of the financial year containing date
func FinancialYearStart(date time.Time) time.Time {
	return time.Date(FinancialYearOf(date), fyStartMonth, 1, 0, 0, 0, 0, date.Location())
}

// FinancialYearEnd returns the last instant of 31 March closing the financial year containing date
func FinancialYearEnd(date time.Time) time.Time {
	return time.Date(FinancialYearOf(date)+1, time.March, 31, 23, 59, 59, 999999999, date.Location())
}

// FormatFinancialYear renders a start year in the short form "2024-25"
func FormatFinancialYear(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// FinancialYearLabel returns "FY 2024-25" for any date in that year
func FinancialYearLabel(date time.Time) string {
	return "FY " + FormatFinancialYear(FinancialYearOf(date))
}

// AssessmentYearLabel returns the assessment year in which income of the
// financial year containing date is assessed, e.g. "AY 2025-26"
func AssessmentYearLabel(date time.Time) string {
	return "AY " + FormatFinancialYear(FinancialYearOf(date)+1)
}

// ParseFinancialYear accepts "2024-25", "FY 2024-25" or "2024-2025" and
// returns the start year
func ParseFinancialYear(s string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "FY"))
	parts := strings.Split(trimmed, "-")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid financial year %q", s)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || start < 1900 || start > 9998 {
		return 0, fmt.Errorf("invalid financial year %q", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid financial year %q", s)
	}

	switch len(strings.TrimSpace(parts[1])) {
	case 2:
		if end != (start+1)%100 {
			return 0, fmt.Errorf("financial year %q must span consecutive years", s)
		}
	case 4:
		if end != start+1 {
			return 0, fmt.Errorf("financial year %q must span consecutive years", s)
		}
	default:
		return 0, fmt.Errorf("invalid financial year %q", s)
	}
	return start, nil
}
