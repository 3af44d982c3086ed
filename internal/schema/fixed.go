package schema

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

const fixedPrec = 512

// ToFixed formats v with exactly digits decimals, rounding the exact binary
// value and breaking ties away from zero. This matches the editor's browser
// side, so descriptions agree byte for byte.
func ToFixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if digits < 0 {
		digits = 0
	}

	neg := v < 0
	if neg {
		v = -v
	}

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	scaled := new(big.Float).SetPrec(fixedPrec).SetFloat64(v)
	scaled.Mul(scaled, new(big.Float).SetPrec(fixedPrec).SetInt(pow))

	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(fixedPrec).Sub(scaled, new(big.Float).SetPrec(fixedPrec).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// NumberString renders v the way an input field shows a number: shortest
// round-trip decimal, no exponent, and no negative zero.
func NumberString(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
