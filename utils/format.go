package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount in Indian-system grouping with the rupee sign,
// e.g. 10000000 -> "₹1,00,00,000". Paise are shown only when non-zero.
func FormatINR(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	abs := amount.Abs()

	whole := abs.Floor()
	paise := abs.Sub(whole)

	out := "₹" + groupIndian(whole.String())
	if !paise.IsZero() {
		// "0.50" -> ".50"
		out += strings.TrimPrefix(paise.StringFixed(2), "0")
	}
	if negative {
		out = "-" + out
	}
	return out
}

// groupIndian inserts commas Indian style: the last three digits form one
// group, everything before that is grouped in twos.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	parts := []string{}
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, digits[len(digits)-3:])
	return strings.Join(parts, ",")
}

// FormatCrore renders an amount in crore units for dashboards, e.g.
// 125000000 -> "12.50 Cr".
func FormatCrore(amount decimal.Decimal) string {
	return amount.Div(decimal.NewFromInt(10000000)).Round(2).String() + " Cr"
}
