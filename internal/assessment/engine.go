// Package assessment runs score, stage and audit as one unit of work.
package assessment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/endochain/go-core/internal/audit"
	"github.com/danielpatrickdp/endochain/go-core/internal/leiv"
	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
)

// #region engine-struct
// Engine wires the calculator, classifier and audit chain together.
type Engine struct {
	calc       *leiv.Calculator
	classifier *stage.Classifier
	chain      *audit.Chain
	logger     *zap.Logger
}

// NewEngine creates a fully wired engine.
func NewEngine(calc *leiv.Calculator, classifier *stage.Classifier, chain *audit.Chain, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{calc: calc, classifier: classifier, chain: chain, logger: logger}
}

// Chain returns the audit chain the engine appends to.
func (e *Engine) Chain() *audit.Chain { return e.chain }

// #endregion engine-struct

// #region assess
// scored is the pure part of an assessment, before any record is written.
type scored struct {
	input    Input
	result   leiv.ScoreResult
	decision stage.Decision
}

func (e *Engine) score(in Input) (scored, error) {
	res, err := e.calc.Compute(in.Distances)
	if err != nil {
		return scored{}, err
	}
	dec, err := e.classifier.Evaluate(res.Decimal)
	if err != nil {
		return scored{}, fmt.Errorf("classify: %w", err)
	}
	return scored{input: in, result: res, decision: dec}, nil
}

func (e *Engine) record(ctx context.Context, s scored) (Assessment, error) {
	fp := audit.Fingerprint(s.input.Distances, s.input.Subject)
	var (
		rec audit.Record
		err error
	)
	if s.input.Timestamp != nil {
		rec, err = e.chain.AppendAt(ctx, *s.input.Timestamp, fp, s.result.Decimal, string(s.decision.Label))
	} else {
		rec, err = e.chain.Append(ctx, fp, s.result.Decimal, string(s.decision.Label))
	}
	if err != nil {
		return Assessment{}, err
	}

	a := Assessment{
		ID:         uuid.New(),
		Score:      s.result.Decimal,
		Expression: s.result.Expression,
		Stage:      s.decision.Label,
		Confidence: s.decision.Confidence,
		Reason:     s.decision.Reason,
		AuditHash:  rec.RecordHash,
		Record:     rec,
		Result:     s.result,
	}
	e.logger.Info("assessment recorded",
		zap.String("assessment_id", a.ID.String()),
		zap.String("score", a.Score),
		zap.String("stage", string(a.Stage)),
		zap.Uint64("sequence", rec.Sequence),
		zap.String("audit_hash", a.AuditHash),
	)
	return a, nil
}

// Assess computes, classifies and records one input. Any failure aborts the
// unit before an audit record is written.
func (e *Engine) Assess(ctx context.Context, in Input) (Assessment, error) {
	s, err := e.score(in)
	if err != nil {
		e.logger.Warn("assessment rejected", zap.Error(err))
		return Assessment{}, err
	}
	return e.record(ctx, s)
}

// AssessBatch scores inputs concurrently, then records them in input order.
// If any input fails to score, nothing is recorded.
func (e *Engine) AssessBatch(ctx context.Context, inputs []Input) ([]Assessment, error) {
	results := make([]scored, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := e.score(in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("batch rejected", zap.Int("inputs", len(inputs)), zap.Error(err))
		return nil, err
	}

	out := make([]Assessment, 0, len(results))
	for i, s := range results {
		a, err := e.record(ctx, s)
		if err != nil {
			return out, fmt.Errorf("input %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// VerifyChain verifies the in-memory audit chain.
func (e *Engine) VerifyChain() audit.Report {
	return e.chain.Verify()
}

// #endregion assess
