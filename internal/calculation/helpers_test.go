package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// d parses a decimal literal; test inputs are always valid.
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want, got decimal.Decimal, what string) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "%s: expected %s, got %s", what, want.String(), got.String())
}
