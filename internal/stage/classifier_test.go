package stage

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
)

func TestClassifyBoundaries(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	cases := []struct {
		score string
		want  Label
	}{
		{"0", Healthy},
		{"0.017", Healthy},
		{"0.017999999999999999", Healthy},
		{"0.018", Stage0},
		{"0.0180", Stage0},
		{"0.079", Stage0},
		{"0.08", Stage12},
		{"0.249999", Stage12},
		{"0.25", Stage34},
		{"7", Stage34},
		{" 0.05 ", Stage0},
	}
	for _, tc := range cases {
		got, err := c.Classify(tc.score)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tc.score, err)
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestClassifyRejectsNegative(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	_, err := c.Classify("-0.001")
	if !errors.Is(err, ErrInvalidScoreDomain) {
		t.Fatalf("expected ErrInvalidScoreDomain, got %v", err)
	}
	var domainErr *ScoreDomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *ScoreDomainError, got %T", err)
	}
	if domainErr.Score != "-1/1000" {
		t.Fatalf("unexpected score in error: %s", domainErr.Score)
	}
}

func TestClassifyRejectsGarbage(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	for _, s := range []string{"", "abc", "0.1.2"} {
		if _, err := c.Classify(s); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Classify(%q): expected ErrInvalidScore, got %v", s, err)
		}
	}
}

func TestClassifyValueExact(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	// sqrt(2)/100 ~ 0.01414 and sqrt(3)/20 ~ 0.0866
	got, err := c.ClassifyValue(algebra.MustSqrt(2).DivInt(100))
	if err != nil || got != Healthy {
		t.Fatalf("sqrt2/100: got %s, %v", got, err)
	}
	got, err = c.ClassifyValue(algebra.MustSqrt(3).DivInt(20))
	if err != nil || got != Stage12 {
		t.Fatalf("sqrt3/20: got %s, %v", got, err)
	}
	got, err = c.ClassifyValue(algebra.Rational(18, 1000))
	if err != nil || got != Stage0 {
		t.Fatalf("exact boundary: got %s, %v", got, err)
	}
	if _, err := c.ClassifyValue(algebra.MustSqrt(2).Neg()); !errors.Is(err, ErrInvalidScoreDomain) {
		t.Fatalf("expected domain error, got %v", err)
	}
}

func TestClassifyValueAgreesWithRendered(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	vals := []algebra.Value{
		algebra.Zero(),
		algebra.Rational(1, 12000),
		algebra.MustSqrt(229).DivInt(400),
		algebra.MustSqrt(6).DivInt(10),
		algebra.Int(3),
	}
	for _, v := range vals {
		a, err := c.ClassifyValue(v)
		if err != nil {
			t.Fatal(err)
		}
		b, err := c.Classify(v.ToDecimal(18))
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("%s: exact %s vs rendered %s", v, a, b)
		}
	}
}

func TestEvaluateConfidence(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	cases := []struct {
		score string
		label Label
		conf  float64
	}{
		{"0", Healthy, 89},
		{"0.017", Healthy, 80.5},
		{"0.05", Stage0, 76},
		{"0.018", Stage0, 70},
		{"0.1", Stage12, 86},
		{"1", Stage34, 99},
	}
	for _, tc := range cases {
		d, err := c.Evaluate(tc.score)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tc.score, err)
		}
		if d.Label != tc.label {
			t.Errorf("Evaluate(%q) label = %s, want %s", tc.score, d.Label, tc.label)
		}
		if math.Abs(d.Confidence-tc.conf) > 1e-9 {
			t.Errorf("Evaluate(%q) confidence = %v, want %v", tc.score, d.Confidence, tc.conf)
		}
		if d.Reason == "" {
			t.Errorf("Evaluate(%q) missing reason", tc.score)
		}
	}
}

func TestParseThresholds(t *testing.T) {
	th, err := ParseThresholds("0.008", "0.08", "0.25")
	if err != nil {
		t.Fatal(err)
	}
	c := NewClassifier(th)
	if got, _ := c.Classify("0.01"); got != Stage0 {
		t.Fatalf("custom boundary: got %s", got)
	}

	bad := [][3]string{
		{"0.08", "0.018", "0.25"},
		{"0", "0.08", "0.25"},
		{"0.018", "0.018", "0.25"},
		{"x", "0.08", "0.25"},
	}
	for _, b := range bad {
		if _, err := ParseThresholds(b[0], b[1], b[2]); !errors.Is(err, ErrInvalidThresholds) {
			t.Errorf("ParseThresholds(%v): expected ErrInvalidThresholds, got %v", b, err)
		}
	}
}

func TestClassifierCopiesThresholds(t *testing.T) {
	th := DefaultThresholds()
	c := NewClassifier(th)
	th.Stage0.SetInt64(1)
	if got, _ := c.Classify("0.5"); got != Stage34 {
		t.Fatalf("classifier shares caller's thresholds: got %s", got)
	}
	c.Thresholds().Stage12.SetInt64(5)
	if c.Thresholds().Stage12.Cmp(big.NewRat(8, 100)) != 0 {
		t.Fatal("Thresholds() leaked internal state")
	}
}

func TestLabelRank(t *testing.T) {
	for i, l := range Labels {
		if l.Rank() != i {
			t.Errorf("%s rank = %d, want %d", l, l.Rank(), i)
		}
	}
	if Label("stage_9").Valid() {
		t.Fatal("unknown label reported valid")
	}
}
