package assessment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/endochain/go-core/internal/algebra"
	"github.com/danielpatrickdp/endochain/go-core/internal/audit"
	"github.com/danielpatrickdp/endochain/go-core/internal/leiv"
	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
)

// #region input
// Input is one set of six radial distances. Timestamp, when set, overrides the
// chain clock for the audit record.
type Input struct {
	Distances []algebra.Value
	Subject   string
	Timestamp *time.Time
}

// DecimalInput parses decimal measurements exactly into an Input.
func DecimalInput(distances []string, subject string, ts *time.Time) (Input, error) {
	values := make([]algebra.Value, len(distances))
	for i, s := range distances {
		v, err := algebra.ParseDecimal(s)
		if err != nil {
			return Input{}, fmt.Errorf("distance %d: %w", i+1, err)
		}
		values[i] = v
	}
	return Input{Distances: values, Subject: subject, Timestamp: ts}, nil
}

// #endregion input

// #region assessment
// Assessment is the outcome of one audited computation.
type Assessment struct {
	ID         uuid.UUID        `json:"id"`
	Score      string           `json:"score"`
	Expression string           `json:"symbolic_expression"`
	Stage      stage.Label      `json:"stage"`
	Confidence float64          `json:"confidence"`
	Reason     string           `json:"reason"`
	AuditHash  string           `json:"audit_hash"`
	Record     audit.Record     `json:"record"`
	Result     leiv.ScoreResult `json:"-"`
}

// #endregion assessment
