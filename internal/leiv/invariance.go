package leiv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
	"github.com/danielpatrickdp/endochain/go-core/internal/glyph"
)

// #region rotation-invariance

// VerifyRotationInvariance recomputes the score under all twelve dihedral
// relabelings of the electrode ring. It reports whether every relabeled score
// is field-equal to the unrelabeled one, and the largest absolute drift (exactly
// zero when invariant).
func (c *Calculator) VerifyRotationInvariance(distances []algebra.Value) (bool, algebra.Value, error) {
	base, err := c.Compute(distances)
	if err != nil {
		return false, algebra.Value{}, err
	}
	maxDrift := algebra.Zero()
	for _, p := range glyph.SymmetryGroup() {
		relabeled, err := glyph.Permute(p, distances)
		if err != nil {
			return false, algebra.Value{}, err
		}
		res, err := c.Compute(relabeled)
		if err != nil {
			return false, algebra.Value{}, err
		}
		if drift := res.Score.Sub(base.Score).Abs(); drift.Cmp(maxDrift) > 0 {
			maxDrift = drift
		}
	}
	return maxDrift.IsZero(), maxDrift, nil
}

// #endregion rotation-invariance

// #region float-drift

// FloatDrift compares the exact score against a plain float64 evaluation of
// the same formula. It is a diagnostic for inputs that originate as
// approximate measurements; the exact score is always the one reported.
func (c *Calculator) FloatDrift(distances []float64) (float64, error) {
	exact, err := c.ComputeFloat(distances)
	if err != nil {
		return 0, err
	}
	approx := FloatScore(distances)
	return math.Abs(exact.Float - approx), nil
}

// FloatScore evaluates the score in float64. Callers must check the length.
func FloatScore(distances []float64) float64 {
	dev := make([]float64, len(distances))
	copy(dev, distances)
	floats.AddConst(-stat.Mean(distances, nil), dev)
	return floats.Dot(dev, dev)
}

// #endregion float-drift

// #region reference-radii

// ElectrodeRadii returns the exact distance of each electrode from the
// origin of the reference layout.
func ElectrodeRadii(table *glyph.Table) ([]algebra.Value, error) {
	electrodes := table.Electrodes()
	radii := make([]algebra.Value, len(electrodes))
	for i, e := range electrodes {
		r2, ok := e.RadiusSquared().Rat()
		if !ok {
			return nil, fmt.Errorf("electrode %s: squared radius %s is irrational", e.Name, e.RadiusSquared())
		}
		r, err := algebra.SqrtRat(r2)
		if err != nil {
			return nil, fmt.Errorf("electrode %s: %w", e.Name, err)
		}
		radii[i] = r
	}
	return radii, nil
}

// #endregion reference-radii
