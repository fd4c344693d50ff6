// Package replay re-runs recorded assessments against pinned expectations.
package replay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/endochain/go-core/internal/assessment"
	"github.com/danielpatrickdp/endochain/go-core/internal/audit"
	"github.com/danielpatrickdp/endochain/go-core/internal/glyph"
	"github.com/danielpatrickdp/endochain/go-core/internal/leiv"
	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
	"github.com/danielpatrickdp/endochain/go-core/internal/timeutil"
)

// #region types

// ReplayEpoch is the clock origin for cases without a timestamp. The clock
// advances one second per undated case.
var ReplayEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Result captures the outcome of replaying one case.
type Result struct {
	CaseID     string
	Stage      stage.Label
	Score      string
	AuditHash  string
	Err        error
	Passed     bool
	Mismatches []string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total      int
	Passed     int
	Failed     int
	Records    int
	HeadHash   string
	ChainValid bool
}

// #endregion types

// #region replay

// Replay runs every case, in order, through a fresh engine backed by an
// in-memory chain. It fails only when the fixture itself is unusable; case
// failures are reported in the results.
func Replay(ctx context.Context, f *Fixture, logger *zap.Logger) ([]Result, Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	th, err := f.Thresholds.ToThresholds()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("fixture thresholds: %w", err)
	}
	var opts []leiv.Option
	if f.Precision > 0 {
		opts = append(opts, leiv.WithPrecision(f.Precision))
	}
	chain, err := audit.NewChain(ctx, audit.NewMemoryBackend(),
		audit.WithClock(timeutil.NewSteppingClock(ReplayEpoch, time.Second)),
		audit.WithLogger(logger),
	)
	if err != nil {
		return nil, Summary{}, err
	}
	engine := assessment.NewEngine(leiv.NewCalculator(glyph.Default(), opts...), stage.NewClassifier(th), chain, logger)

	results := make([]Result, 0, len(f.Cases))
	for i := range f.Cases {
		fc := &f.Cases[i]
		res := runCase(ctx, engine, fc)
		logger.Debug("replayed case",
			zap.String("case", fc.ID),
			zap.Bool("passed", res.Passed),
			zap.Strings("mismatches", res.Mismatches),
		)
		results = append(results, res)
	}

	s := Summarize(results)
	s.Records = chain.Len()
	s.HeadHash = chain.HeadHash()
	s.ChainValid = chain.Verify().Valid
	return results, s, nil
}

func runCase(ctx context.Context, engine *assessment.Engine, fc *FixtureCase) Result {
	res := Result{CaseID: fc.ID}

	in, err := fc.ToInput()
	if err == nil {
		var a assessment.Assessment
		a, err = engine.Assess(ctx, in)
		if err == nil {
			res.Stage = a.Stage
			res.Score = a.Score
			res.AuditHash = a.AuditHash
		}
	}
	res.Err = err

	if fc.ExpectedError != "" {
		switch {
		case err == nil:
			res.Mismatches = append(res.Mismatches, fmt.Sprintf("expected error %q, got success", fc.ExpectedError))
		case !strings.Contains(err.Error(), fc.ExpectedError):
			res.Mismatches = append(res.Mismatches, fmt.Sprintf("expected error %q, got %q", fc.ExpectedError, err))
		}
		res.Passed = len(res.Mismatches) == 0
		return res
	}
	if err != nil {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("unexpected error: %v", err))
		return res
	}

	if fc.ExpectedStage != "" && string(res.Stage) != fc.ExpectedStage {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("stage: expected %s, got %s", fc.ExpectedStage, res.Stage))
	}
	if fc.ExpectedScore != "" && res.Score != fc.ExpectedScore {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("score: expected %s, got %s", fc.ExpectedScore, res.Score))
	}
	if fc.ExpectedAuditHash != "" && res.AuditHash != fc.ExpectedAuditHash {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("audit hash: expected %s, got %s", fc.ExpectedAuditHash, res.AuditHash))
	}
	res.Passed = len(res.Mismatches) == 0
	return res
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// #endregion replay
