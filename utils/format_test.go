package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "₹0"},
		{"999", "₹999"},
		{"1000", "₹1,000"},
		{"100000", "₹1,00,000"},
		{"10000000", "₹1,00,00,000"},
		{"125000000", "₹12,50,00,000"},
		{"1234567890", "₹1,23,45,67,890"},
		{"1500.50", "₹1,500.50"},
		{"-40000000", "-₹4,00,00,000"},
	}

	for _, tc := range cases {
		got := FormatINR(decimal.RequireFromString(tc.amount))
		assert.Equal(t, tc.want, got, "amount %s", tc.amount)
	}
}

func TestFormatCrore(t *testing.T) {
	assert.Equal(t, "12.5 Cr", FormatCrore(decimal.RequireFromString("125000000")))
	assert.Equal(t, "1 Cr", FormatCrore(decimal.RequireFromString("10000000")))
	assert.Equal(t, "0.05 Cr", FormatCrore(decimal.RequireFromString("500000")))
}
