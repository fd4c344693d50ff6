package stage

import (
	"errors"
	"fmt"
	"math/big"
)

// #region label
// Label is one of the four ordered stage categories.
type Label string

const (
	Healthy Label = "healthy"
	Stage0  Label = "stage_0"
	Stage12 Label = "stage_1_2"
	Stage34 Label = "stage_3_4"
)

// Labels lists every label in ascending severity.
var Labels = []Label{Healthy, Stage0, Stage12, Stage34}

// Rank returns the label's position in severity order, or -1 if unknown.
func (l Label) Rank() int {
	for i, x := range Labels {
		if x == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l is one of the four labels.
func (l Label) Valid() bool { return l.Rank() >= 0 }

// #endregion label

// #region errors
var (
	// ErrInvalidScoreDomain is returned for negative scores.
	ErrInvalidScoreDomain = errors.New("invalid score domain")
	// ErrInvalidScore is returned when a score string does not parse.
	ErrInvalidScore = errors.New("invalid score")
	// ErrInvalidThresholds is returned when boundaries are not strictly increasing and positive.
	ErrInvalidThresholds = errors.New("invalid thresholds")
)

// ScoreDomainError carries the rejected score.
type ScoreDomainError struct {
	Score string
}

func (e *ScoreDomainError) Error() string {
	return fmt.Sprintf("%s: score %s is negative", ErrInvalidScoreDomain, e.Score)
}

func (e *ScoreDomainError) Unwrap() error { return ErrInvalidScoreDomain }

// #endregion errors

// #region thresholds
// Thresholds holds the lower boundary of each non-healthy stage. Intervals are
// left-closed and right-open.
type Thresholds struct {
	Stage0  *big.Rat
	Stage12 *big.Rat
	Stage34 *big.Rat
}

// DefaultThresholds returns 0.018 / 0.08 / 0.25.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Stage0:  big.NewRat(18, 1000),
		Stage12: big.NewRat(8, 100),
		Stage34: big.NewRat(25, 100),
	}
}

// ParseThresholds builds thresholds from decimal strings.
func ParseThresholds(stage0, stage12, stage34 string) (Thresholds, error) {
	var t Thresholds
	for _, f := range []struct {
		name string
		in   string
		dst  **big.Rat
	}{
		{"stage_0", stage0, &t.Stage0},
		{"stage_1_2", stage12, &t.Stage12},
		{"stage_3_4", stage34, &t.Stage34},
	} {
		r, ok := new(big.Rat).SetString(f.in)
		if !ok {
			return Thresholds{}, fmt.Errorf("%w: %s boundary %q", ErrInvalidThresholds, f.name, f.in)
		}
		*f.dst = r
	}
	return t, t.Validate()
}

// Validate checks 0 < Stage0 < Stage12 < Stage34.
func (t Thresholds) Validate() error {
	if t.Stage0 == nil || t.Stage12 == nil || t.Stage34 == nil {
		return fmt.Errorf("%w: missing boundary", ErrInvalidThresholds)
	}
	if t.Stage0.Sign() <= 0 {
		return fmt.Errorf("%w: stage_0 boundary %s must be positive", ErrInvalidThresholds, t.Stage0.FloatString(6))
	}
	if t.Stage0.Cmp(t.Stage12) >= 0 || t.Stage12.Cmp(t.Stage34) >= 0 {
		return fmt.Errorf("%w: boundaries must be strictly increasing", ErrInvalidThresholds)
	}
	return nil
}

// Strings renders the boundaries as exact rationals, for fingerprinting.
func (t Thresholds) Strings() []string {
	return []string{
		"stage_0=" + t.Stage0.RatString(),
		"stage_1_2=" + t.Stage12.RatString(),
		"stage_3_4=" + t.Stage34.RatString(),
	}
}

// #endregion thresholds

// #region decision
// Decision is the output of Evaluate.
type Decision struct {
	Label      Label
	Confidence float64 // 0-99, heuristic distance from the nearest boundary
	Reason     string
}

// #endregion decision
