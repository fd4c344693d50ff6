// Package stage maps a score onto the four ordered stage labels.
package stage

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
)

// #region classifier
// Classifier is immutable and safe for concurrent use.
type Classifier struct {
	t Thresholds
}

// NewClassifier returns a classifier over t. It panics on invalid thresholds;
// use ParseThresholds or Thresholds.Validate to check first.
func NewClassifier(t Thresholds) *Classifier {
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return &Classifier{t: Thresholds{
		Stage0:  new(big.Rat).Set(t.Stage0),
		Stage12: new(big.Rat).Set(t.Stage12),
		Stage34: new(big.Rat).Set(t.Stage34),
	}}
}

// Thresholds returns a copy of the boundaries.
func (c *Classifier) Thresholds() Thresholds {
	return Thresholds{
		Stage0:  new(big.Rat).Set(c.t.Stage0),
		Stage12: new(big.Rat).Set(c.t.Stage12),
		Stage34: new(big.Rat).Set(c.t.Stage34),
	}
}

// Classify parses a decimal score exactly and returns its label.
func (c *Classifier) Classify(score string) (Label, error) {
	s, err := parseScore(score)
	if err != nil {
		return "", err
	}
	return c.classifyRat(s)
}

// ClassifyValue classifies an exact field element without rendering it.
func (c *Classifier) ClassifyValue(score algebra.Value) (Label, error) {
	if score.Sign() < 0 {
		return "", &ScoreDomainError{Score: score.String()}
	}
	switch {
	case score.Cmp(algebra.FromRat(c.t.Stage0)) < 0:
		return Healthy, nil
	case score.Cmp(algebra.FromRat(c.t.Stage12)) < 0:
		return Stage0, nil
	case score.Cmp(algebra.FromRat(c.t.Stage34)) < 0:
		return Stage12, nil
	default:
		return Stage34, nil
	}
}

// Evaluate classifies a rendered decimal score and attaches a confidence.
func (c *Classifier) Evaluate(score string) (Decision, error) {
	s, err := parseScore(score)
	if err != nil {
		return Decision{}, err
	}
	label, err := c.classifyRat(s)
	if err != nil {
		return Decision{}, err
	}
	conf := c.Confidence(s, label)
	return Decision{
		Label:      label,
		Confidence: conf,
		Reason:     c.reason(s, label),
	}, nil
}

func (c *Classifier) classifyRat(s *big.Rat) (Label, error) {
	if s.Sign() < 0 {
		return "", &ScoreDomainError{Score: s.RatString()}
	}
	switch {
	case s.Cmp(c.t.Stage0) < 0:
		return Healthy, nil
	case s.Cmp(c.t.Stage12) < 0:
		return Stage0, nil
	case s.Cmp(c.t.Stage34) < 0:
		return Stage12, nil
	default:
		return Stage34, nil
	}
}

func parseScore(score string) (*big.Rat, error) {
	s, ok := new(big.Rat).SetString(strings.TrimSpace(score))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScore, score)
	}
	return s, nil
}

// #endregion classifier

// #region confidence
// Confidence is a heuristic in [0, 99] that grows with distance from the
// nearest boundary of the label's interval.
func (c *Classifier) Confidence(s *big.Rat, label Label) float64 {
	t0, _ := c.t.Stage0.Float64()
	t1, _ := c.t.Stage12.Float64()
	v, _ := s.Float64()

	switch label {
	case Healthy:
		return min(99, 80+500*(t0-v))
	case Stage0:
		return min(95, 70+200*min(v-t0, t1-v))
	default:
		return min(99, 85+50*(v-t1))
	}
}

func (c *Classifier) reason(s *big.Rat, label Label) string {
	lo, hi := c.bounds(label)
	switch {
	case lo == nil:
		return fmt.Sprintf("score %s < %s", s.FloatString(6), hi.FloatString(3))
	case hi == nil:
		return fmt.Sprintf("score %s >= %s", s.FloatString(6), lo.FloatString(3))
	default:
		return fmt.Sprintf("%s <= score %s < %s", lo.FloatString(3), s.FloatString(6), hi.FloatString(3))
	}
}

func (c *Classifier) bounds(label Label) (lo, hi *big.Rat) {
	switch label {
	case Healthy:
		return nil, c.t.Stage0
	case Stage0:
		return c.t.Stage0, c.t.Stage12
	case Stage12:
		return c.t.Stage12, c.t.Stage34
	default:
		return c.t.Stage34, nil
	}
}

// #endregion confidence
