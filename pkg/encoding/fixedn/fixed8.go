package fixedn

import (
	"encoding/json"
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/neocorex/neogo/pkg/io"
	"gopkg.in/yaml.v3"
)

// decimals is the number of fractional digits Fixed8 carries (GAS/NEO
// system-fee precision).
const decimals = 100000000

// Fixed8 is a fixed-point number with 8 fractional digits, the precision
// Neo N3 uses for GAS amounts and system fees.
type Fixed8 int64

// Fixed8FromInt64 returns a Fixed8 equal to val.
func Fixed8FromInt64(val int64) Fixed8 {
	return Fixed8(val * decimals)
}

// Fixed8FromFloat returns a Fixed8 closest to val.
func Fixed8FromFloat(val float64) Fixed8 {
	return Fixed8(val * decimals)
}

// Fixed8FromString parses s (either an integer or a decimal with up to 8
// fractional digits) into a Fixed8.
func Fixed8FromString(s string) (Fixed8, error) {
	parts := strings.SplitN(s, ".", 2)
	ip, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	neg := strings.HasPrefix(parts[0], "-")
	val := ip * decimals
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 8 {
			return 0, errors.New("too much precision for a Fixed8 value")
		}
		for len(frac) < 8 {
			frac += "0"
		}
		fp, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		if neg {
			val -= fp
		} else {
			val += fp
		}
	}
	return Fixed8(val), nil
}

// Satoshi returns the smallest representable positive Fixed8 value.
func Satoshi() Fixed8 { return Fixed8(1) }

// IntegralValue returns the integer part of the value.
func (f Fixed8) IntegralValue() int64 { return int64(f) / decimals }

// FractionalValue returns the fractional part of the value, scaled to an
// 8-digit integer.
func (f Fixed8) FractionalValue() int32 {
	v := int64(f) % decimals
	if v < 0 {
		v = -v
	}
	return int32(v)
}

// FloatValue returns the float64 approximation of the value.
func (f Fixed8) FloatValue() float64 { return float64(f) / decimals }

// String renders the value with trailing zeros trimmed, matching the
// canonical Neo N3 JSON representation of fixed-point amounts.
func (f Fixed8) String() string {
	s := ToString(big.NewInt(int64(f)), 8)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// Add returns f+g.
func (f Fixed8) Add(g Fixed8) Fixed8 { return f + g }

// Sub returns f-g.
func (f Fixed8) Sub(g Fixed8) Fixed8 { return f - g }

// Div returns f/i, truncated toward zero.
func (f Fixed8) Div(i int64) Fixed8 { return Fixed8(int64(f) / i) }

// LessThan reports whether f < g.
func (f Fixed8) LessThan(g Fixed8) bool { return f < g }

// GreaterThan reports whether f > g.
func (f Fixed8) GreaterThan(g Fixed8) bool { return f > g }

// Equal reports whether f == g.
func (f Fixed8) Equal(g Fixed8) bool { return f == g }

// CompareTo returns -1, 0 or 1 as f is less than, equal to, or greater than g.
func (f Fixed8) CompareTo(g Fixed8) int {
	switch {
	case f < g:
		return -1
	case f > g:
		return 1
	default:
		return 0
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (f Fixed8) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface, accepting either
// a JSON number or a decimal string.
func (f *Fixed8) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var v float64
		if err2 := json.Unmarshal(data, &v); err2 != nil {
			return err
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	val, err := Fixed8FromString(s)
	if err != nil {
		return err
	}
	*f = val
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (f Fixed8) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (f *Fixed8) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		val, err := Fixed8FromString(s)
		if err != nil {
			return err
		}
		*f = val
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	*f = Fixed8FromFloat(v)
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (f Fixed8) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(f))
}

// DecodeBinary implements the io.Serializable interface.
func (f *Fixed8) DecodeBinary(r *io.BinReader) {
	*f = Fixed8(r.ReadU64LE())
}
