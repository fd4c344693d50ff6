package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// #region report
// ViolationKind classifies a verification failure.
type ViolationKind string

const (
	RecordHashMismatch   ViolationKind = "record_hash_mismatch"
	PreviousHashMismatch ViolationKind = "previous_hash_mismatch"
	SequenceGap          ViolationKind = "sequence_gap"
)

// Violation describes the first broken link.
type Violation struct {
	Index    int           `json:"index"`
	Kind     ViolationKind `json:"kind"`
	Expected string        `json:"expected"`
	Got      string        `json:"got"`
}

// Report is the result of verifying a chain.
type Report struct {
	Valid             bool       `json:"valid"`
	Length            int        `json:"length"`
	FirstInvalidIndex *int       `json:"first_invalid_index"`
	Violation         *Violation `json:"violation,omitempty"`
}

// Err returns a *ChainIntegrityViolation for an invalid report, nil otherwise.
func (r Report) Err() error {
	if r.Valid || r.Violation == nil {
		return nil
	}
	return &ChainIntegrityViolation{Violation: *r.Violation}
}

// #endregion report

// #region verify
// Verify checks the in-memory chain.
func (c *Chain) Verify() Report {
	rep := VerifyRecords(c.Records(), c.hasher)
	c.logReport(rep)
	return rep
}

// VerifyStored reloads every record from the backend and verifies them.
func (c *Chain) VerifyStored(ctx context.Context) (Report, error) {
	records, err := c.backend.Load(ctx)
	if err != nil {
		return Report{}, &StorageError{Op: "load", Err: err}
	}
	rep := VerifyRecords(records, c.hasher)
	c.logReport(rep)
	return rep, nil
}

func (c *Chain) logReport(rep Report) {
	if rep.Valid {
		return
	}
	v := rep.Violation
	c.logger.Warn("audit chain verification failed",
		zap.Int("index", v.Index),
		zap.String("kind", string(v.Kind)),
		zap.String("expected", v.Expected),
		zap.String("got", v.Got),
	)
}

// VerifyRecords walks records from the genesis link, stopping at the first
// violation.
func VerifyRecords(records []Record, h Hasher) Report {
	prev := GenesisHash
	for i, r := range records {
		if r.Sequence != uint64(i) {
			return invalid(len(records), i, SequenceGap, fmt.Sprint(i), fmt.Sprint(r.Sequence))
		}
		if r.PreviousHash != prev {
			return invalid(len(records), i, PreviousHashMismatch, prev, r.PreviousHash)
		}
		if want := h.Hash(r); r.RecordHash != want {
			return invalid(len(records), i, RecordHashMismatch, want, r.RecordHash)
		}
		prev = r.RecordHash
	}
	return Report{Valid: true, Length: len(records)}
}

func invalid(n, i int, kind ViolationKind, expected, got string) Report {
	idx := i
	return Report{
		Length:            n,
		FirstInvalidIndex: &idx,
		Violation:         &Violation{Index: i, Kind: kind, Expected: expected, Got: got},
	}
}

// #endregion verify
