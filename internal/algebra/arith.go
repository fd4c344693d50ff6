package algebra

import "math/big"

// #region add-sub

// Add returns v + w.
func (v Value) Add(w Value) Value {
	var out Value
	for i := range out.c {
		out.c[i] = new(big.Rat).Add(v.coef(i), w.coef(i))
	}
	return out
}

// Sub returns v - w.
func (v Value) Sub(w Value) Value {
	var out Value
	for i := range out.c {
		out.c[i] = new(big.Rat).Sub(v.coef(i), w.coef(i))
	}
	return out
}

// Neg returns -v.
func (v Value) Neg() Value {
	var out Value
	for i := range out.c {
		out.c[i] = new(big.Rat).Neg(v.coef(i))
	}
	return out
}

// Abs returns |v|.
func (v Value) Abs() Value {
	if v.Sign() < 0 {
		return v.Neg()
	}
	return v
}

// Sum adds all values. The empty sum is zero.
func Sum(vs ...Value) Value {
	total := Zero()
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

// #endregion add-sub

// #region mul

// Mul returns v * w.
func (v Value) Mul(w Value) Value {
	return Value{c: toArray(mulCoeffs(v.slice(), w.slice(), primes[:]))}
}

// Square returns v * v.
func (v Value) Square() Value {
	return v.Mul(v)
}

// Scale returns r * v. A nil r is treated as zero.
func (v Value) Scale(r *big.Rat) Value {
	var out Value
	if r == nil {
		return out
	}
	for i := range out.c {
		out.c[i] = new(big.Rat).Mul(v.coef(i), r)
	}
	return out
}

// DivInt returns v / n. Division is restricted to integer divisors; n == 0
// is a programming error and panics.
func (v Value) DivInt(n int64) Value {
	if n == 0 {
		panic("algebra: division by zero")
	}
	return v.Scale(big.NewRat(1, n))
}

func (v Value) slice() []*big.Rat {
	out := make([]*big.Rat, basisSize)
	for i := range out {
		out[i] = v.coef(i)
	}
	return out
}

func toArray(s []*big.Rat) [basisSize]*big.Rat {
	var a [basisSize]*big.Rat
	copy(a[:], s)
	return a
}

// mulCoeffs multiplies two elements of the sub-field generated by ps, where
// len(a) == len(b) == 1<<len(ps). sqrt(x)*sqrt(y) over masks i and j lands on
// mask i^j scaled by the primes the two share.
func mulCoeffs(a, b []*big.Rat, ps []int64) []*big.Rat {
	n := len(a)
	out := make([]*big.Rat, n)
	for k := range out {
		out[k] = new(big.Rat)
	}
	tmp := new(big.Rat)
	for i := 0; i < n; i++ {
		if a[i].Sign() == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if b[j].Sign() == 0 {
				continue
			}
			tmp.Mul(a[i], b[j])
			if shared := i & j; shared != 0 {
				tmp.Mul(tmp, new(big.Rat).SetInt64(maskProduct(shared, ps)))
			}
			out[i^j].Add(out[i^j], tmp)
		}
	}
	return out
}

// #endregion mul

// #region sign

// Sign returns -1, 0 or +1 according to the exact sign of v.
//
// Writing v = a + b*sqrt(p) for the highest prime p with a, b in the smaller
// field: if a and b agree in sign (or one is zero) that is the answer;
// otherwise sign(v) = sign(a) * sign(a^2 - p*b^2), computed recursively.
func (v Value) Sign() int {
	return signOf(v.slice(), primes[:])
}

func signOf(c []*big.Rat, ps []int64) int {
	if len(ps) == 0 {
		return c[0].Sign()
	}
	half := len(c) / 2
	a, b := c[:half], c[half:]
	sub := ps[:len(ps)-1]
	sa, sb := signOf(a, sub), signOf(b, sub)
	switch {
	case sb == 0:
		return sa
	case sa == 0:
		return sb
	case sa == sb:
		return sa
	}
	a2 := mulCoeffs(a, a, sub)
	b2 := mulCoeffs(b, b, sub)
	p := new(big.Rat).SetInt64(ps[len(ps)-1])
	d := make([]*big.Rat, half)
	for i := range d {
		d[i] = new(big.Rat).Sub(a2[i], new(big.Rat).Mul(b2[i], p))
	}
	return sa * signOf(d, sub)
}

// Cmp compares v and w exactly, returning -1, 0 or +1.
func (v Value) Cmp(w Value) int {
	return v.Sub(w).Sign()
}

// Equal reports exact field equality.
func (v Value) Equal(w Value) bool {
	for i := range v.c {
		if v.coef(i).Cmp(w.coef(i)) != 0 {
			return false
		}
	}
	return true
}

// #endregion sign
