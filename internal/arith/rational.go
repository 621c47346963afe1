package arith

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// The verifier works on exact rationals so that "1/2", "2/4" and "0.5" all
// reduce to the same value. Results are rendered back in grade-school
// notation: plain integers, proper fractions "n/d", and mixed numbers
// "w n/d" for improper values.

var (
	fractionRe = regexp.MustCompile(`^(-?\d+)/(\d+)$`)
	mixedRe    = regexp.MustCompile(`^(-?\d+)\s+(\d+)/(\d+)$`)
	decimalRe  = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// ParseValue parses a single numeric answer: an integer ("7"), a decimal
// ("0.5"), a fraction ("3/4"), or a mixed number ("5 1/2"). Returns
// (nil, false) when the string is not a recognizable number.
func ParseValue(s string) (*big.Rat, bool) {
	s = Normalize(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	if m := mixedRe.FindStringSubmatch(s); m != nil {
		whole, ok := new(big.Rat).SetString(m[1])
		if !ok {
			return nil, false
		}
		if m[3] == "0" {
			return nil, false
		}
		frac, ok := new(big.Rat).SetString(m[2] + "/" + m[3])
		if !ok {
			return nil, false
		}
		// The sign of the whole part applies to the fraction too:
		// "-1 1/2" means -(1 + 1/2).
		if whole.Sign() < 0 {
			frac.Neg(frac)
		}
		return whole.Add(whole, frac), true
	}

	if m := fractionRe.FindStringSubmatch(s); m != nil {
		if m[2] == "0" {
			return nil, false
		}
		if r, ok := new(big.Rat).SetString(s); ok {
			return r, true
		}
		return nil, false
	}

	if decimalRe.MatchString(s) {
		if r, ok := new(big.Rat).SetString(s); ok {
			return r, true
		}
	}

	return nil, false
}

// Render formats a rational in school notation. Integers render bare,
// proper fractions as "n/d", improper values as mixed numbers "w n/d".
func Render(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}

	num := new(big.Int).Abs(r.Num())
	den := r.Denom()

	whole, rem := new(big.Int).QuoRem(num, den, new(big.Int))

	sign := ""
	if r.Sign() < 0 {
		sign = "-"
	}

	if whole.Sign() == 0 {
		return fmt.Sprintf("%s%s/%s", sign, rem, den)
	}
	return fmt.Sprintf("%s%s %s/%s", sign, whole, rem, den)
}

// Equal reports whether two answer strings denote the same rational value.
// Both sides go through ParseValue, so "1/2" equals "2/4" and "1 1/2"
// equals "3/2". Returns false when either side fails to parse; a parse
// failure is not evidence of inequality, so callers that need tri-state
// semantics should use ParseValue directly.
func Equal(a, b string) bool {
	ra, ok := ParseValue(a)
	if !ok {
		return false
	}
	rb, ok := ParseValue(b)
	if !ok {
		return false
	}
	return ra.Cmp(rb) == 0
}
