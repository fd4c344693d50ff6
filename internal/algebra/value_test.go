package algebra

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Value {
	t.Helper()
	v, err := ParseDecimal(s)
	require.NoError(t, err)
	return v
}

func TestSqrtExtractsSquares(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{4, "2"},
		{3, "sqrt(3)"},
		{12, "2*sqrt(3)"},
		{48, "4*sqrt(3)"},
		{6, "sqrt(6)"},
		{229, "sqrt(229)"},
		{916, "2*sqrt(229)"},
		{1374, "sqrt(1374)"},
	}
	for _, tc := range cases {
		v, err := Sqrt(tc.n)
		require.NoError(t, err, "sqrt(%d)", tc.n)
		assert.Equal(t, tc.want, v.String(), "sqrt(%d)", tc.n)
	}
}

func TestSqrtLargeRadicands(t *testing.T) {
	v, err := Sqrt(1518500249 * 1518500249 * 3)
	require.NoError(t, err)
	assert.Equal(t, "1518500249*sqrt(3)", v.String())

	v, err = Sqrt(3037000499 * 3037000499)
	require.NoError(t, err)
	assert.Equal(t, "3037000499", v.String())

	_, err = Sqrt(math.MaxInt64)
	assert.ErrorIs(t, err, ErrUnsupportedRadical)
	_, err = Sqrt(math.MaxInt64 - 24)
	assert.ErrorIs(t, err, ErrUnsupportedRadical)
}

func TestSqrtOutsideField(t *testing.T) {
	for _, n := range []int64{5, 7, 10, 25 * 7, -3} {
		_, err := Sqrt(n)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedRadical), "sqrt(%d): %v", n, err)
	}
}

func TestSqrtRat(t *testing.T) {
	v, err := SqrtRat(big.NewRat(3, 16))
	require.NoError(t, err)
	assert.True(t, v.Equal(MustSqrt(3).DivInt(4)), "got %s", v)
}

func TestSquareOfRadicalIsRational(t *testing.T) {
	for _, r := range Radicands() {
		v := MustSqrt(r).Square()
		got, ok := v.Rat()
		require.True(t, ok, "sqrt(%d)^2 should be rational, got %s", r, v)
		assert.Equal(t, 0, got.Cmp(new(big.Rat).SetInt64(r)))
	}
}

func TestMulClosedOverBasis(t *testing.T) {
	// sqrt2 * sqrt3 = sqrt6, sqrt6 * sqrt3 = 3*sqrt2, sqrt458 * sqrt687 = 229*sqrt6
	assert.Equal(t, "sqrt(6)", MustSqrt(2).Mul(MustSqrt(3)).String())
	assert.Equal(t, "3*sqrt(2)", MustSqrt(6).Mul(MustSqrt(3)).String())
	assert.Equal(t, "229*sqrt(6)", MustSqrt(458).Mul(MustSqrt(687)).String())
}

func TestAddSubRoundTrip(t *testing.T) {
	a := Rational(3, 8).Add(MustSqrt(3).DivInt(4))
	b := Rational(-37, 80).Add(MustSqrt(229).DivInt(80))
	assert.True(t, a.Add(b).Sub(b).Equal(a))
	assert.True(t, a.Sub(a).IsZero())
}

func TestSquareMatchesExpansion(t *testing.T) {
	// (1 + sqrt2)^2 = 3 + 2*sqrt2
	v := One().Add(MustSqrt(2)).Square()
	assert.Equal(t, "3 + 2*sqrt(2)", v.String())
}

func TestStringCanonical(t *testing.T) {
	v := Rational(7, 40).Sub(MustSqrt(2).DivInt(4))
	assert.Equal(t, "7/40 - 1/4*sqrt(2)", v.String())
	assert.Equal(t, "-1/4*sqrt(2)", MustSqrt(2).DivInt(-4).String())
	assert.Equal(t, "0", Zero().String())
	assert.Equal(t, "0", Value{}.String())
}

func TestZeroValueUsable(t *testing.T) {
	var v Value
	assert.True(t, v.IsZero())
	assert.Equal(t, 0, v.Sign())
	assert.True(t, v.Add(One()).Equal(One()))
	assert.Equal(t, "0.00", v.ToDecimal(2))
}

func TestSignExact(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want int
	}{
		{"zero", Zero(), 0},
		{"positive rational", Rational(1, 3), 1},
		{"negative radical", MustSqrt(3).Neg(), -1},
		// sqrt2 - 1.41421356 > 0
		{"sqrt2 above truncation", MustSqrt(2).Sub(mustParse(t, "1.41421356")), 1},
		// sqrt2 - 1.41421357 < 0
		{"sqrt2 below bound", MustSqrt(2).Sub(mustParse(t, "1.41421357")), -1},
		// sqrt2 + sqrt3 - sqrt(10)~3.1623 ; 3.14626 < 3.1623
		{"sqrt2 plus sqrt3 vs 3.15", MustSqrt(2).Add(MustSqrt(3)).Sub(mustParse(t, "3.15")), -1},
		{"sqrt2 plus sqrt3 vs 3.14", MustSqrt(2).Add(MustSqrt(3)).Sub(mustParse(t, "3.14")), 1},
		// 7/40 - sqrt2/4 = 0.175 - 0.35355 < 0
		{"hidden star x", Rational(7, 40).Sub(MustSqrt(2).DivInt(4)), -1},
		// -37/80 + sqrt229/80 = (-37 + 15.1327)/80 < 0
		{"vesica y", Rational(-37, 80).Add(MustSqrt(229).DivInt(80)), -1},
		// sqrt6 - sqrt2 - sqrt3 + 0.7 : 2.44949 - 1.41421 - 1.73205 + 0.7 = 0.00323
		{"mixed near zero", MustSqrt(6).Sub(MustSqrt(2)).Sub(MustSqrt(3)).Add(mustParse(t, "0.7")), 1},
		{"mixed near zero below", MustSqrt(6).Sub(MustSqrt(2)).Sub(MustSqrt(3)).Add(mustParse(t, "0.69")), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.v.Sign())
			f := tc.v.Float64()
			switch tc.want {
			case 1:
				assert.Greater(t, f, 0.0)
			case -1:
				assert.Less(t, f, 0.0)
			}
		})
	}
}

func TestCmpAndEqual(t *testing.T) {
	a := MustSqrt(3).DivInt(4)
	b := MustSqrt(48).DivInt(16)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.Equal(t, 1, a.Cmp(Rational(43, 100)))
	assert.Equal(t, -1, a.Cmp(Rational(44, 100)))
}

func TestToDecimal(t *testing.T) {
	cases := []struct {
		v         Value
		precision int
		want      string
	}{
		{Zero(), 3, "0.000"},
		{Rational(1, 8), 2, "0.13"},
		{Rational(-1, 8), 2, "-0.13"},
		{Rational(1, 3), 5, "0.33333"},
		{Rational(2, 3), 0, "1"},
		{Rational(-1, 1000), 2, "0.00"},
		{MustSqrt(3).DivInt(4), 16, "0.4330127018922193"},
		{MustSqrt(2), 20, "1.41421356237309504880"},
		{MustSqrt(229), 12, "15.132745950422"},
		{Int(1234), 1, "1234.0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.v.ToDecimal(tc.precision), "%s at %d", tc.v, tc.precision)
	}
}

func TestToDecimalLargeValues(t *testing.T) {
	v := mustParse(t, "123456789123456789123456789123456789123456789123456789123.7")
	x := v.Mul(MustSqrt(2)).Square().Add(v.Mul(MustSqrt(3)))

	done := make(chan string, 1)
	go func() { done <- x.ToDecimal(18) }()
	select {
	case got := <-done:
		// 2v^2 + v*sqrt(3)
		assert.Equal(t, "30483157561347357092211556623075756153939955684804155216002292313425403269555112747383025643585414596008974672352.887940631137520061", got)
	case <-time.After(10 * time.Second):
		t.Fatal("ToDecimal(18) did not return")
	}

	big40 := MustSqrt(2).Scale(new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)))
	assert.Equal(t, "14142135623730950488016887242096980785696.718753769480731767", big40.ToDecimal(18))
}

func TestToDecimalDeterministic(t *testing.T) {
	v := Rational(7, 40).Sub(MustSqrt(2).DivInt(4)).Square()
	first := v.ToDecimal(40)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, v.ToDecimal(40))
	}
}

func TestRenderParseIdempotent(t *testing.T) {
	values := []Value{
		Rational(1, 7),
		MustSqrt(3).DivInt(8),
		Rational(-37, 80).Add(MustSqrt(229).DivInt(80)),
		mustParse(t, "0.00025"),
	}
	for _, v := range values {
		for _, p := range []int{0, 3, 15, 30} {
			rendered := v.ToDecimal(p)
			back, err := ParseDecimal(rendered)
			require.NoError(t, err)
			assert.Equal(t, rendered, back.ToDecimal(p), "value %s precision %d", v, p)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	v := mustParse(t, " 0.433 ")
	r, ok := v.Rat()
	require.True(t, ok)
	assert.Equal(t, "433/1000", r.RatString())

	v = mustParse(t, "-1.5e-3")
	r, _ = v.Rat()
	assert.Equal(t, "-3/2000", r.RatString())

	for _, bad := range []string{"", "abc", "1.2.3"} {
		_, err := ParseDecimal(bad)
		assert.ErrorIs(t, err, ErrInvalidDecimal, "input %q", bad)
	}
}

func TestFromFloat64(t *testing.T) {
	v, err := FromFloat64(0.375)
	require.NoError(t, err)
	assert.True(t, v.Equal(Rational(3, 8)))

	_, err = FromFloat64(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidDecimal)
}

func TestNewSumsTerms(t *testing.T) {
	v, err := New(
		Term{Coeff: big.NewRat(3, 80), Radicand: 3},
		Term{Coeff: big.NewRat(1, 80), Radicand: 687},
		Term{Coeff: big.NewRat(1, 80), Radicand: 3},
	)
	require.NoError(t, err)
	assert.Equal(t, "1/20*sqrt(3) + 1/80*sqrt(687)", v.String())
	assert.Equal(t, 0, v.Coefficient(3).Cmp(big.NewRat(1, 20)))

	_, err = New(Term{Coeff: big.NewRat(1, 1), Radicand: 5})
	assert.ErrorIs(t, err, ErrUnsupportedRadical)
}

func TestImmutability(t *testing.T) {
	a := Rational(1, 2)
	b := MustSqrt(2)
	_ = a.Add(b)
	_ = a.Mul(b)
	_ = a.Scale(big.NewRat(5, 1))
	assert.Equal(t, "1/2", a.String())
	assert.Equal(t, "sqrt(2)", b.String())

	c := a.Coefficient(1)
	c.SetInt64(99)
	assert.Equal(t, "1/2", a.String())
}
