// Package leiv computes the LEI-V score: the sum of squared deviations of
// six radial electrode distances from their mean, in exact arithmetic.
package leiv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
	"github.com/danielpatrickdp/endochain/go-core/internal/glyph"
)

// #region errors

// ErrInvalidInputCount is returned when a distance set does not hold exactly
// one value per electrode.
var ErrInvalidInputCount = errors.New("invalid input count")

// InputCountError records the offending count.
type InputCountError struct {
	Got  int
	Want int
}

func (e *InputCountError) Error() string {
	return fmt.Sprintf("%s: expected %d radial distances, got %d", ErrInvalidInputCount, e.Want, e.Got)
}

func (e *InputCountError) Unwrap() error { return ErrInvalidInputCount }

// #endregion errors

// #region result

// ScoreResult is the outcome of one computation. Score is exact; Decimal and
// Float are renderings of it.
type ScoreResult struct {
	Score             algebra.Value
	Decimal           string
	Float             float64
	Expression        string
	Derivation        string
	Mean              algebra.Value
	Deviations        [glyph.ElectrodeCount]algebra.Value
	SquaredDeviations [glyph.ElectrodeCount]algebra.Value
	Precision         int
}

// #endregion result

// #region calculator

// DefaultPrecision is the number of fractional digits in ScoreResult.Decimal.
const DefaultPrecision = 18

// Calculator is stateless after construction and safe for concurrent use.
type Calculator struct {
	table     *glyph.Table
	precision int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithPrecision sets the rendering precision of ScoreResult.Decimal.
func WithPrecision(p int) Option {
	return func(c *Calculator) {
		if p >= 0 {
			c.precision = p
		}
	}
}

// NewCalculator returns a calculator bound to the given constant table.
func NewCalculator(table *glyph.Table, opts ...Option) *Calculator {
	if table == nil {
		table = glyph.Default()
	}
	c := &Calculator{table: table, precision: DefaultPrecision}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Precision returns the rendering precision.
func (c *Calculator) Precision() int { return c.precision }

// Table returns the constant table the calculator was built with.
func (c *Calculator) Table() *glyph.Table { return c.table }

// Compute returns sum_i (r_i - mean)^2 for exactly six distances.
func (c *Calculator) Compute(distances []algebra.Value) (ScoreResult, error) {
	want := c.table.ElectrodeCount()
	if len(distances) != want {
		return ScoreResult{}, &InputCountError{Got: len(distances), Want: want}
	}

	mean := algebra.Sum(distances...).DivInt(int64(want))

	var res ScoreResult
	score := algebra.Zero()
	for i, r := range distances {
		dev := r.Sub(mean)
		sq := dev.Square()
		res.Deviations[i] = dev
		res.SquaredDeviations[i] = sq
		score = score.Add(sq)
	}

	res.Score = score
	res.Mean = mean
	res.Precision = c.precision
	res.Decimal = score.ToDecimal(c.precision)
	res.Float = score.Float64()
	res.Expression = score.String()
	res.Derivation = derivation(distances, mean)
	return res, nil
}

// ComputeDecimal parses six decimal measurements exactly and computes the score.
func (c *Calculator) ComputeDecimal(distances []string) (ScoreResult, error) {
	want := c.table.ElectrodeCount()
	if len(distances) != want {
		return ScoreResult{}, &InputCountError{Got: len(distances), Want: want}
	}
	values := make([]algebra.Value, len(distances))
	for i, s := range distances {
		v, err := algebra.ParseDecimal(s)
		if err != nil {
			return ScoreResult{}, fmt.Errorf("distance %d: %w", i+1, err)
		}
		values[i] = v
	}
	return c.Compute(values)
}

// ComputeFloat takes each float64 at its exact binary value.
func (c *Calculator) ComputeFloat(distances []float64) (ScoreResult, error) {
	values, err := fromFloats(distances)
	if err != nil {
		return ScoreResult{}, err
	}
	return c.Compute(values)
}

func fromFloats(distances []float64) ([]algebra.Value, error) {
	values := make([]algebra.Value, len(distances))
	for i, f := range distances {
		v, err := algebra.FromFloat64(f)
		if err != nil {
			return nil, fmt.Errorf("distance %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func derivation(distances []algebra.Value, mean algebra.Value) string {
	var b strings.Builder
	b.WriteString("sum_{i=1..6} (r_i - rbar)^2; r = [")
	for i, r := range distances {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteString("]; rbar = ")
	b.WriteString(mean.String())
	return b.String()
}

// #endregion calculator
