// Package algebra implements exact arithmetic in the multi-quadratic field
// Q(√2, √3, √229).
//
// A Value is a rational combination of the eight basis radicals
// {1, √2, √3, √6, √229, √458, √687, √1374}. Every basis element is the square
// root of a square-free product of a subset of the primes {2, 3, 229}, so the
// set is closed under multiplication and no operation ever needs rounding.
// Decimal rendering happens only in ToDecimal.
package algebra

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// #region basis

// primes are the square-free generators of the field. Basis element i is
// sqrt(product of primes[k] for every bit k set in i).
var primes = [...]int64{2, 3, 229}

const basisSize = 1 << len(primes)

// radicands[i] is the integer under the square root of basis element i.
var radicands = func() [basisSize]int64 {
	var r [basisSize]int64
	for mask := 0; mask < basisSize; mask++ {
		r[mask] = maskProduct(mask, primes[:])
	}
	return r
}()

func maskProduct(mask int, ps []int64) int64 {
	p := int64(1)
	for k, prime := range ps {
		if mask&(1<<k) != 0 {
			p *= prime
		}
	}
	return p
}

// Radicands returns the basis radicands in canonical order.
func Radicands() []int64 {
	out := make([]int64, basisSize)
	copy(out, radicands[:])
	return out
}

// #endregion basis

// #region errors

var (
	// ErrUnsupportedRadical is returned when a square root falls outside the field.
	ErrUnsupportedRadical = errors.New("radical outside Q(sqrt2, sqrt3, sqrt229)")
	// ErrInvalidDecimal is returned when a measurement string cannot be read as a number.
	ErrInvalidDecimal = errors.New("invalid decimal")
)

// #endregion errors

// #region value

// Value is an immutable element of the field. The zero Value is 0.
type Value struct {
	c [basisSize]*big.Rat
}

// Term is one radical of a Value: Coeff * sqrt(Radicand).
type Term struct {
	Coeff    *big.Rat
	Radicand int64
}

// Zero returns the additive identity.
func Zero() Value { return Value{} }

// One returns the multiplicative identity.
func One() Value { return Int(1) }

// Int returns the integer n.
func Int(n int64) Value {
	var v Value
	v.c[0] = new(big.Rat).SetInt64(n)
	return v
}

// Rational returns num/den. It panics if den is zero.
func Rational(num, den int64) Value {
	if den == 0 {
		panic("algebra: zero denominator")
	}
	var v Value
	v.c[0] = big.NewRat(num, den)
	return v
}

// FromRat returns the rational r. A nil r is treated as zero.
func FromRat(r *big.Rat) Value {
	var v Value
	if r != nil {
		v.c[0] = new(big.Rat).Set(r)
	}
	return v
}

// FromFloat64 returns the exact rational value of f.
func FromFloat64(f float64) (Value, error) {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		return Value{}, fmt.Errorf("%w: %v is not finite", ErrInvalidDecimal, f)
	}
	return FromRat(r), nil
}

// Sqrt returns the exact square root of n. Square factors are pulled out
// (sqrt(12) = 2*sqrt(3)); the remaining square-free part must be a product of
// the field's primes.
func Sqrt(n int64) (Value, error) {
	if n < 0 {
		return Value{}, fmt.Errorf("%w: sqrt(%d) is not real", ErrUnsupportedRadical, n)
	}
	if n == 0 {
		return Zero(), nil
	}
	outside, inside, ok := splitSquare(n)
	if !ok {
		return Value{}, fmt.Errorf("%w: sqrt(%d)", ErrUnsupportedRadical, n)
	}
	mask, _ := maskFor(inside)
	var v Value
	v.c[mask] = new(big.Rat).SetInt64(outside)
	return v, nil
}

// MustSqrt is Sqrt for compile-time constants. It panics on error.
func MustSqrt(n int64) Value {
	v, err := Sqrt(n)
	if err != nil {
		panic(err)
	}
	return v
}

// SqrtRat returns the exact square root of a non-negative rational when it
// lies in the field: sqrt(p/q) = sqrt(p*q)/q.
func SqrtRat(r *big.Rat) (Value, error) {
	if r.Sign() < 0 {
		return Value{}, fmt.Errorf("%w: sqrt(%s) is not real", ErrUnsupportedRadical, r.RatString())
	}
	if r.Sign() == 0 {
		return Zero(), nil
	}
	prod := new(big.Int).Mul(r.Num(), r.Denom())
	if !prod.IsInt64() {
		return Value{}, fmt.Errorf("%w: sqrt(%s) is too large", ErrUnsupportedRadical, r.RatString())
	}
	root, err := Sqrt(prod.Int64())
	if err != nil {
		return Value{}, err
	}
	return root.Scale(new(big.Rat).SetFrac(big.NewInt(1), r.Denom())), nil
}

// New builds a Value from terms. Terms sharing a radical are summed.
func New(terms ...Term) (Value, error) {
	sum := Zero()
	for _, t := range terms {
		root, err := Sqrt(t.Radicand)
		if err != nil {
			return Value{}, err
		}
		sum = sum.Add(root.Scale(t.Coeff))
	}
	return sum, nil
}

// splitSquare writes n > 0 as outside^2 * inside, where inside is a product
// of distinct field primes. It reports false when the part of n left after
// dividing out the field primes is not a perfect square.
func splitSquare(n int64) (outside, inside int64, ok bool) {
	outside, inside = 1, 1
	m := n
	for _, p := range primes {
		for m%(p*p) == 0 {
			m /= p * p
			outside *= p
		}
		if m%p == 0 {
			m /= p
			inside *= p
		}
	}
	rest := big.NewInt(m)
	root := new(big.Int).Sqrt(rest)
	if new(big.Int).Mul(root, root).Cmp(rest) != 0 {
		return 0, 0, false
	}
	return outside * root.Int64(), inside, true
}

func maskFor(squareFree int64) (int, bool) {
	mask := 0
	for k, p := range primes {
		if squareFree%p == 0 {
			mask |= 1 << k
			squareFree /= p
		}
	}
	return mask, squareFree == 1
}

// coef returns the i-th coefficient, never nil. Callers must not mutate it.
func (v Value) coef(i int) *big.Rat {
	if v.c[i] == nil {
		return new(big.Rat)
	}
	return v.c[i]
}

// Coefficient returns a copy of the coefficient of sqrt(radicand), where
// radicand is one of Radicands().
func (v Value) Coefficient(radicand int64) *big.Rat {
	for i, r := range radicands {
		if r == radicand {
			return new(big.Rat).Set(v.coef(i))
		}
	}
	return new(big.Rat)
}

// Terms returns the non-zero terms in canonical basis order.
func (v Value) Terms() []Term {
	var out []Term
	for i := range v.c {
		c := v.coef(i)
		if c.Sign() == 0 {
			continue
		}
		out = append(out, Term{Coeff: new(big.Rat).Set(c), Radicand: radicands[i]})
	}
	return out
}

// IsZero reports whether v is exactly 0.
func (v Value) IsZero() bool {
	for i := range v.c {
		if v.coef(i).Sign() != 0 {
			return false
		}
	}
	return true
}

// IsRational reports whether every irrational coefficient is zero.
func (v Value) IsRational() bool {
	for i := 1; i < basisSize; i++ {
		if v.coef(i).Sign() != 0 {
			return false
		}
	}
	return true
}

// Rat returns v as a rational, or false if v is irrational.
func (v Value) Rat() (*big.Rat, bool) {
	if !v.IsRational() {
		return nil, false
	}
	return new(big.Rat).Set(v.coef(0)), true
}

// String renders the canonical symbolic form, e.g. "3/8 - 1/4*sqrt(3)".
// Equal values always render the same string.
func (v Value) String() string {
	var b strings.Builder
	for i := range v.c {
		c := v.coef(i)
		if c.Sign() == 0 {
			continue
		}
		abs := new(big.Rat).Abs(c)
		switch {
		case b.Len() == 0 && c.Sign() < 0:
			b.WriteString("-")
		case b.Len() > 0 && c.Sign() < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if i == 0 {
			b.WriteString(abs.RatString())
			continue
		}
		if abs.Cmp(big.NewRat(1, 1)) != 0 {
			b.WriteString(abs.RatString())
			b.WriteString("*")
		}
		fmt.Fprintf(&b, "sqrt(%d)", radicands[i])
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// #endregion value
