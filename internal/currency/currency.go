// Package currency renders catalog prices in Gambian Dalasi. The remote API
// prices in USD; conversion is display-only and all cart arithmetic stays in
// the source currency.
package currency

import (
	"fmt"
	"math"
	"strings"
)

// Approximate fixed rate, 1 USD to GMD.
const usdToGMDRate = 67

// ToGMD converts a USD amount to Dalasi.
func ToGMD(usd float64) float64 {
	return usd * usdToGMDRate
}

// FormatGMD renders a USD amount as a Dalasi display string, e.g. "D1,234.50".
func FormatGMD(usd float64) string {
	return "D" + groupThousands(ToGMD(usd))
}

func groupThousands(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
