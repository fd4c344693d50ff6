package algebra

import (
	"fmt"
	"math/big"
	"strings"
)

// #region parse

// ParseDecimal reads a decimal measurement such as "0.433" or "-1.5e-3" as
// its exact rational value. Fractions ("3/8") are accepted too.
func ParseDecimal(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty string", ErrInvalidDecimal)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	return FromRat(r), nil
}

// #endregion parse

// #region render

// ToDecimal renders v with exactly precision fractional digits, rounding half
// away from zero. The rounding decision is exact: a big.Float estimate picks
// a candidate and exact sign tests correct it, so the output depends only on
// v and precision.
func (v Value) ToDecimal(precision int) string {
	if precision < 0 {
		precision = 0
	}
	sign := v.Sign()
	abs := v
	if sign < 0 {
		abs = v.Neg()
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)
	scaled := abs.Scale(new(big.Rat).SetInt(scale))

	n := roundHalfUp(scaled)

	digits := n.String()
	if precision > 0 {
		if len(digits) <= precision {
			digits = strings.Repeat("0", precision-len(digits)+1) + digits
		}
		cut := len(digits) - precision
		digits = digits[:cut] + "." + digits[cut:]
	}
	if sign < 0 && n.Sign() != 0 {
		return "-" + digits
	}
	return digits
}

// guardBits is the working precision beyond the integer part of an estimate.
const guardBits = 64

// roundHalfUp returns floor(x + 1/2) for x >= 0.
func roundHalfUp(x Value) *big.Int {
	half := Rational(1, 2)
	shifted := x.Add(half)

	est := shifted.bigFloat(shifted.magnitudeBits() + guardBits)
	n, _ := est.Int(nil)
	if n.Sign() < 0 {
		n.SetInt64(0)
	}

	// Exact correction: want n <= shifted < n+1.
	one := big.NewInt(1)
	for shifted.Cmp(FromRat(new(big.Rat).SetInt(n))) < 0 {
		n.Sub(n, one)
	}
	for {
		next := new(big.Int).Add(n, one)
		if shifted.Cmp(FromRat(new(big.Rat).SetInt(next))) < 0 {
			break
		}
		n = next
	}
	return n
}

// magnitudeBits bounds the bit length of sum_i |c_i| * ceil(sqrt(radicand_i)),
// which is at least as large as every partial sum bigFloat forms. With that
// many integer bits plus guardBits of mantissa the estimate is off by far
// less than one.
func (v Value) magnitudeBits() uint {
	bound := new(big.Rat)
	for i := range v.c {
		c := v.coef(i)
		if c.Sign() == 0 {
			continue
		}
		root := new(big.Int).Sqrt(big.NewInt(radicands[i]))
		root.Add(root, big.NewInt(1))
		term := new(big.Rat).Abs(c)
		bound.Add(bound, term.Mul(term, new(big.Rat).SetInt(root)))
	}
	whole := new(big.Int).Quo(bound.Num(), bound.Denom())
	return uint(whole.BitLen()) + 1
}

// bigFloat approximates v at prec bits of mantissa.
func (v Value) bigFloat(prec uint) *big.Float {
	total := new(big.Float).SetPrec(prec)
	for i := range v.c {
		c := v.coef(i)
		if c.Sign() == 0 {
			continue
		}
		term := new(big.Float).SetPrec(prec).SetRat(c)
		if i > 0 {
			root := new(big.Float).SetPrec(prec).SetInt64(radicands[i])
			root.Sqrt(root)
			term.Mul(term, root)
		}
		total.Add(total, term)
	}
	return total
}

// Float64 approximates v for display and diagnostics only.
func (v Value) Float64() float64 {
	f, _ := v.bigFloat(128).Float64()
	return f
}

// #endregion render
