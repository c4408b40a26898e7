package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFinancialYearBoundaries tests that April 1 opens a new financial year
func TestFinancialYearBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		date        time.Time
		expectedFY  int
		expectedLbl string
		expectedAY  string
		description string
	}{
		{
			name:        "Last day of March",
			date:        time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC),
			expectedFY:  2024,
			expectedLbl: "FY 2024-25",
			expectedAY:  "AY 2025-26",
			description: "March belongs to the year that started the previous April",
		},
		{
			name:        "First day of April",
			date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			expectedFY:  2025,
			expectedLbl: "FY 2025-26",
			expectedAY:  "AY 2026-27",
			description: "April 1 starts a new financial year",
		},
		{
			name:        "January",
			date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			expectedFY:  2023,
			expectedLbl: "FY 2023-24",
			expectedAY:  "AY 2024-25",
			description: "January to March roll back one year",
		},
		{
			name:        "Century rollover",
			date:        time.Date(2099, 12, 1, 0, 0, 0, 0, time.UTC),
			expectedFY:  2099,
			expectedLbl: "FY 2099-00",
			expectedAY:  "AY 2100-01",
			description: "Two-digit suffix wraps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedFY, FinancialYearOf(tt.date), tt.description)
			assert.Equal(t, tt.expectedLbl, FinancialYearLabel(tt.date), tt.description)
			assert.Equal(t, tt.expectedAY, AssessmentYearLabel(tt.date), tt.description)
		})
	}
}

func TestFinancialYearStartAndEnd(t *testing.T) {
	date := time.Date(2024, 11, 20, 10, 30, 0, 0, time.UTC)

	start := FinancialYearStart(date)
	end := FinancialYearEnd(date)

	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 2025, end.Year())
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 31, end.Day())
	assert.True(t, end.Add(time.Nanosecond).Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseFinancialYear(t *testing.T) {
	valid := map[string]int{
		"2024-25":    2024,
		"FY 2024-25": 2024,
		"fy2023-24":  2023,
		"2024-2025":  2024,
		"1999-00":    1999,
	}
	for in, want := range valid {
		got, err := ParseFinancialYear(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "2024", "2024-26", "2024-2026", "abcd-ef", "2024-5", "FY"} {
		_, err := ParseFinancialYear(in)
		assert.Error(t, err, in)
	}
}

func TestFormatFinancialYear(t *testing.T) {
	assert.Equal(t, "2024-25", FormatFinancialYear(2024))
	assert.Equal(t, "2009-10", FormatFinancialYear(2009))
}
