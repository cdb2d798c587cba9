package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney writes an amount in reais: "R$ 1.234,56".
func FormatMoney(f float64) string {
	s := decimal.NewFromFloat(f).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if sign != "" && strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}
	return sign + "R$ " + groupThousands(intPart) + "," + frac
}

// FormatPercent writes a fraction as a percentage with two decimals:
// 0.15 becomes "15,00%".
func FormatPercent(rate float64) string {
	s := decimal.NewFromFloat(rate).Shift(2).StringFixed(2)
	return strings.Replace(s, ".", ",", 1) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
