package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "+91 98765 43210", "6000000000"}
	for _, p := range valid {
		assert.True(t, ValidatePhone(p), "expected %q to be valid", p)
	}

	invalid := []string{"1234567890", "98765", "+9298765432 10", "98765432100", "phone"}
	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), "expected %q to be invalid", p)
	}
}

func TestValidateFinancialYear(t *testing.T) {
	assert.True(t, ValidateFinancialYear("2025-26"))
	assert.True(t, ValidateFinancialYear("1999-00"))

	assert.False(t, ValidateFinancialYear("2025"))
	assert.False(t, ValidateFinancialYear("25-26"))
	assert.False(t, ValidateFinancialYear("2025-2026"))
	assert.False(t, ValidateFinancialYear("FY2025-26"))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("collector.lucknow@gov.in"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
}
