package util

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// decimals is the number of decimal places a Fixed8 value carries; GAS and
// NEO balances, network/system fees and storage prices are all denominated
// this way.
const decimals = 100000000

// Fixed8 represents a fixed-point number with a precision of 8 decimal
// digits, stored as an int64 of 10^-8 units (matching the NEP-17 GAS
// representation).
type Fixed8 int64

// Fixed8FromInt64 returns x scaled to Fixed8 (i.e. x.0).
func Fixed8FromInt64(x int64) Fixed8 {
	return Fixed8(decimals * x)
}

// Fixed8FromFloat returns f rounded into a Fixed8.
func Fixed8FromFloat(f float64) Fixed8 {
	return Fixed8(f * decimals)
}

// Satoshi returns the smallest representable Fixed8 unit.
func Satoshi() Fixed8 {
	return Fixed8(1)
}

// Fixed8FromString parses a decimal string (integer or with up to 8
// fractional digits) into a Fixed8.
func Fixed8FromString(s string) (Fixed8, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	intPart, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	val := intPart * decimals
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 8 {
			return 0, errors.New("fixed8: too many decimal digits")
		}
		frac = frac + strings.Repeat("0", 8-len(frac))
		fracVal, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		val += fracVal
	}
	if neg {
		val = -val
	}
	return Fixed8(val), nil
}

// Int64Value returns the integer part (truncated) of the value.
func (f Fixed8) Int64Value() int64 {
	return int64(f) / decimals
}

// FloatValue returns the float64 approximation of the value.
func (f Fixed8) FloatValue() float64 {
	return float64(f) / decimals
}

// Add returns f+g.
func (f Fixed8) Add(g Fixed8) Fixed8 {
	return f + g
}

// Sub returns f-g.
func (f Fixed8) Sub(g Fixed8) Fixed8 {
	return f - g
}

// String renders the canonical decimal representation, trimming trailing
// zero fractional digits (and the decimal point itself when the value is
// integral).
func (f Fixed8) String() string {
	buf := int64(f)
	sign := ""
	if buf < 0 {
		sign = "-"
		buf = -buf
	}
	intPart := buf / decimals
	fracPart := buf % decimals
	if fracPart == 0 {
		return sign + strconv.FormatInt(intPart, 10)
	}
	fracStr := strconv.FormatInt(fracPart, 10)
	fracStr = strings.Repeat("0", 8-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + strconv.FormatInt(intPart, 10) + "." + fracStr
}

// MarshalJSON renders the value as a JSON number with up to 8 fractional
// digits.
func (f Fixed8) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.FloatValue())
}

// UnmarshalJSON accepts either a JSON number or a decimal string.
func (f *Fixed8) UnmarshalJSON(data []byte) error {
	var numeric float64
	if err := json.Unmarshal(data, &numeric); err == nil {
		*f = Fixed8FromFloat(numeric)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	val, err := Fixed8FromString(s)
	if err != nil {
		return err
	}
	*f = val
	return nil
}
