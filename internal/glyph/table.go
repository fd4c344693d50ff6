// Package glyph holds the immutable geometric reference table: the exact
// intersection points of the reference layout and the six-electrode ring
// used to interpret radial distance measurements.
package glyph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
)

// #region layer

// Layer names one construction layer of the reference layout.
type Layer string

const (
	LayerTriangleHexagon    Layer = "triangle_hexagon"
	LayerVesicaHexagon      Layer = "vesica_hexagon"
	LayerHiddenStarTriangle Layer = "hidden_star_triangle"
	LayerElectrodes         Layer = "rsl"
)

// Layers lists every layer in table order.
var Layers = []Layer{LayerTriangleHexagon, LayerVesicaHexagon, LayerHiddenStarTriangle, LayerElectrodes}

// #endregion layer

// #region point

// ElectrodeCount is the number of electrodes on the primary layer.
const ElectrodeCount = 6

// Point is one labeled reference point with exact coordinates.
type Point struct {
	Name           string
	X              algebra.Value
	Y              algebra.Value
	Layer          Layer
	ElectrodeIndex int // 1-6 on the electrode layer, 0 otherwise
}

// RadiusSquared returns x^2 + y^2 exactly.
func (p Point) RadiusSquared() algebra.Value {
	return p.X.Square().Add(p.Y.Square())
}

// Float returns an approximate (x, y) for display only.
func (p Point) Float() (float64, float64) {
	return p.X.Float64(), p.Y.Float64()
}

// #endregion point

// #region table

// Table is the immutable constant table. Accessors return copies.
type Table struct {
	points []Point
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table, built on first use.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable()
	})
	return defaultTable
}

// NewTable builds a fresh table. Prefer Default outside tests.
func NewTable() *Table {
	sqrt3 := algebra.MustSqrt(3)
	sqrt2 := algebra.MustSqrt(2)
	sqrt229 := algebra.MustSqrt(229)
	zero := algebra.Zero()

	axial := sqrt3.DivInt(4)
	offX := sqrt3.DivInt(8)
	offY := algebra.Rational(3, 8)
	vBase := algebra.Rational(3, 80)
	vOff := sqrt229.DivInt(80)
	vY := algebra.Rational(-37, 80).Add(vOff)
	hstX := algebra.Rational(7, 40).Sub(sqrt2.DivInt(4))
	hstY := algebra.Rational(-3, 8)

	pts := []Point{
		{Name: "TH_axial_pos", X: axial, Y: zero, Layer: LayerTriangleHexagon, ElectrodeIndex: 1},
		{Name: "TH_axial_neg", X: axial.Neg(), Y: zero, Layer: LayerTriangleHexagon, ElectrodeIndex: 4},
		{Name: "TH_offaxis_1", X: offX, Y: offY, Layer: LayerTriangleHexagon, ElectrodeIndex: 2},
		{Name: "TH_offaxis_2", X: offX.Neg(), Y: offY, Layer: LayerTriangleHexagon, ElectrodeIndex: 3},
		{Name: "TH_offaxis_3", X: offX, Y: offY.Neg(), Layer: LayerTriangleHexagon, ElectrodeIndex: 6},
		{Name: "TH_offaxis_4", X: offX.Neg(), Y: offY.Neg(), Layer: LayerTriangleHexagon, ElectrodeIndex: 5},

		{Name: "VH_pos", X: sqrt3.Mul(vBase.Add(vOff)), Y: vY, Layer: LayerVesicaHexagon},
		{Name: "VH_neg", X: sqrt3.Mul(vBase.Sub(vOff)), Y: vY, Layer: LayerVesicaHexagon},
		{Name: "VH_mirror_pos", X: sqrt3.Mul(vBase.Add(vOff)).Neg(), Y: vY, Layer: LayerVesicaHexagon},
		{Name: "VH_mirror_neg", X: sqrt3.Mul(vBase.Sub(vOff)).Neg(), Y: vY, Layer: LayerVesicaHexagon},

		{Name: "HST_pos", X: hstX, Y: hstY, Layer: LayerHiddenStarTriangle},
		{Name: "HST_neg", X: hstX.Neg(), Y: hstY, Layer: LayerHiddenStarTriangle},
	}

	// Electrode ring: radius sqrt(3)/4 at 0, 60, ..., 300 degrees.
	ring := [ElectrodeCount][2]algebra.Value{
		{axial, zero},
		{offX, offY},
		{offX.Neg(), offY},
		{axial.Neg(), zero},
		{offX.Neg(), offY.Neg()},
		{offX, offY.Neg()},
	}
	for i, xy := range ring {
		pts = append(pts, Point{
			Name:           fmt.Sprintf("RSL_E%d", i+1),
			X:              xy[0],
			Y:              xy[1],
			Layer:          LayerElectrodes,
			ElectrodeIndex: i + 1,
		})
	}
	return &Table{points: pts}
}

// All returns every point in table order.
func (t *Table) All() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// ByLayer returns the points of one layer in table order.
func (t *Table) ByLayer(layer Layer) []Point {
	var out []Point
	for _, p := range t.points {
		if p.Layer == layer {
			out = append(out, p)
		}
	}
	return out
}

// Electrodes returns the six electrode positions ordered by index.
func (t *Table) Electrodes() []Point {
	return t.ByLayer(LayerElectrodes)
}

// ElectrodeCount returns the size of the electrode collection. It always
// agrees with the ElectrodeCount constant.
func (t *Table) ElectrodeCount() int {
	return len(t.Electrodes())
}

// Lookup finds a point by name.
func (t *Table) Lookup(name string) (Point, bool) {
	for _, p := range t.points {
		if p.Name == name {
			return p, true
		}
	}
	return Point{}, false
}

// #endregion table

// #region verification

// VerifySymmetry checks exactly that every electrode lies on the same circle.
func (t *Table) VerifySymmetry() (bool, string) {
	electrodes := t.Electrodes()
	if len(electrodes) != ElectrodeCount {
		return false, fmt.Sprintf("expected %d electrodes, found %d", ElectrodeCount, len(electrodes))
	}
	r0 := electrodes[0].RadiusSquared()
	for _, e := range electrodes[1:] {
		if r := e.RadiusSquared(); !r.Equal(r0) {
			return false, fmt.Sprintf("radius mismatch at %s: %s != %s", e.Name, r, r0)
		}
	}
	return true, fmt.Sprintf("C3 x D6 symmetry verified: all %d electrodes at radius^2 = %s", ElectrodeCount, r0)
}

// Fingerprint returns the SHA-256 of every point's exact coordinates, plus
// any extra strings (such as threshold boundaries) the caller wants pinned.
func (t *Table) Fingerprint(extra ...string) string {
	parts := make([]string, 0, len(t.points)+len(extra))
	for _, p := range t.points {
		parts = append(parts, fmt.Sprintf("%s:%s:%s", p.Name, p.X, p.Y))
	}
	parts = append(parts, extra...)
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// #endregion verification
