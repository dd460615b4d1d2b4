package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatVND renders an amount the way Vietnamese invoices do:
// 1234567 -> "1.234.567 ₫".
func FormatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteString(" ₫")
	return b.String()
}

// FormatPercent renders a ratio with one decimal and a comma separator:
// 0.8543 -> "85,4%".
func FormatPercent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return "0%"
	}
	s := strconv.FormatFloat(math.Round(ratio*1000)/10, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return strings.Replace(s, ".", ",", 1) + "%"
}
