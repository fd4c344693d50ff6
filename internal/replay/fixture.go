package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/endochain/go-core/internal/assessment"
	"github.com/danielpatrickdp/endochain/go-core/internal/audit"
	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string            `json:"description"`
	Precision   int               `json:"precision,omitempty"` // 0 means the calculator default
	Thresholds  FixtureThresholds `json:"thresholds"`
	Cases       []FixtureCase     `json:"cases"`
}

// FixtureThresholds mirrors stage.Thresholds as decimal strings. Empty
// boundaries fall back to the defaults.
type FixtureThresholds struct {
	Stage0  string `json:"stage_0,omitempty"`
	Stage12 string `json:"stage_1_2,omitempty"`
	Stage34 string `json:"stage_3_4,omitempty"`
}

// FixtureCase is one recorded assessment with its expected outcome.
type FixtureCase struct {
	ID                string   `json:"id"`
	Distances         []string `json:"distances"`
	Subject           string   `json:"subject,omitempty"`
	Timestamp         string   `json:"timestamp,omitempty"`
	ExpectedStage     string   `json:"expected_stage,omitempty"`
	ExpectedScore     string   `json:"expected_score,omitempty"`
	ExpectedAuditHash string   `json:"expected_audit_hash,omitempty"`
	ExpectedError     string   `json:"expected_error,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToThresholds converts the fixture boundaries, filling gaps from the defaults.
func (ft FixtureThresholds) ToThresholds() (stage.Thresholds, error) {
	def := stage.DefaultThresholds()
	pick := func(s string, fallback string) string {
		if s == "" {
			return fallback
		}
		return s
	}
	return stage.ParseThresholds(
		pick(ft.Stage0, def.Stage0.RatString()),
		pick(ft.Stage12, def.Stage12.RatString()),
		pick(ft.Stage34, def.Stage34.RatString()),
	)
}

// ToInput converts a case to an engine input.
func (fc *FixtureCase) ToInput() (assessment.Input, error) {
	var ts *time.Time
	if fc.Timestamp != "" {
		t, err := audit.ParseTimestamp(fc.Timestamp)
		if err != nil {
			t, err = time.Parse(time.RFC3339Nano, fc.Timestamp)
			if err != nil {
				return assessment.Input{}, fmt.Errorf("case %s: timestamp %q: %w", fc.ID, fc.Timestamp, err)
			}
		}
		ts = &t
	}
	in, err := assessment.DecimalInput(fc.Distances, fc.Subject, ts)
	if err != nil {
		return assessment.Input{}, fmt.Errorf("case %s: %w", fc.ID, err)
	}
	return in, nil
}

// #endregion fixture-loader
