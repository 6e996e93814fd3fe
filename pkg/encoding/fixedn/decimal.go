// Package fixedn renders integers with an implied decimal point, as used
// to present NEP-17 token amounts (e.g. GAS with 8 decimals) to humans.
package fixedn

import (
	"math/big"
	"strings"
)

// ToString renders value as a decimal string with decimals fractional
// digits, trimming no trailing zeros (callers that want a trimmed display
// form should post-process).
func ToString(value *big.Int, decimals int) string {
	if decimals == 0 {
		return value.String()
	}

	neg := value.Sign() < 0
	abs := new(big.Int).Abs(value)
	s := abs.String()
	for len(s) <= decimals {
		s = "0" + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := s[len(s)-decimals:]

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(intPart)
	sb.WriteByte('.')
	sb.WriteString(fracPart)
	return sb.String()
}
