package replay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
)

func loadReference(t *testing.T) *Fixture {
	t.Helper()
	f, err := LoadFixture(filepath.Join("testdata", "reference.json"))
	require.NoError(t, err)
	return f
}

func TestReplayReferenceFixture(t *testing.T) {
	f := loadReference(t)
	results, summary, err := Replay(context.Background(), f, nil)
	require.NoError(t, err)

	for _, r := range results {
		assert.True(t, r.Passed, "case %s: %v", r.CaseID, r.Mismatches)
	}
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 7, summary.Passed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 6, summary.Records, "the rejected case writes no record")
	assert.True(t, summary.ChainValid)
	assert.Equal(t, "7b80d7b816736f61b4a082e65f85b5d526177f2343b19d428e8ddc582ecb6913", summary.HeadHash)
}

func TestReplayBoundaryIsLeftClosed(t *testing.T) {
	f := loadReference(t)
	results, _, err := Replay(context.Background(), f, nil)
	require.NoError(t, err)
	for _, r := range results {
		if r.CaseID == "boundary-stage-0" {
			assert.Equal(t, "0.018000000000000000", r.Score)
			assert.Equal(t, stage.Stage0, r.Stage)
			return
		}
	}
	t.Fatal("boundary case missing from fixture")
}

func TestReplayIsDeterministic(t *testing.T) {
	f := loadReference(t)
	_, s1, err := Replay(context.Background(), f, nil)
	require.NoError(t, err)
	_, s2, err := Replay(context.Background(), f, nil)
	require.NoError(t, err)
	assert.Equal(t, s1.HeadHash, s2.HeadHash)
}

func TestReplayReportsMismatches(t *testing.T) {
	f := &Fixture{
		Cases: []FixtureCase{
			{ID: "wrong-stage", Distances: []string{"0.6", "0.4", "0.6", "0.4", "0.6", "0.4"}, ExpectedStage: "healthy"},
			{ID: "wrong-score", Distances: []string{"0.5", "0.5", "0.5", "0.5", "0.5", "0.5"}, ExpectedScore: "0.1"},
			{ID: "wrong-hash", Distances: []string{"0.5", "0.5", "0.5", "0.5", "0.5", "0.5"}, ExpectedAuditHash: "00"},
			{ID: "missing-error", Distances: []string{"0.5", "0.5", "0.5", "0.5", "0.5", "0.5"}, ExpectedError: "invalid input count"},
			{ID: "unexpected-error", Distances: []string{"0.5"}},
			{ID: "bad-decimal", Distances: []string{"x", "0.5", "0.5", "0.5", "0.5", "0.5"}},
		},
	}
	results, summary, err := Replay(context.Background(), f, nil)
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Equal(t, 6, summary.Failed)
	assert.Equal(t, 4, summary.Records)
	assert.True(t, summary.ChainValid)

	assert.Contains(t, results[0].Mismatches[0], "stage")
	assert.Contains(t, results[1].Mismatches[0], "score")
	assert.Contains(t, results[2].Mismatches[0], "audit hash")
	assert.Contains(t, results[3].Mismatches[0], "got success")
	assert.Contains(t, results[4].Mismatches[0], "unexpected error")
	assert.Error(t, results[5].Err)
}

func TestReplayCustomThresholds(t *testing.T) {
	f := &Fixture{
		Precision:  4,
		Thresholds: FixtureThresholds{Stage0: "0.001"},
		Cases: []FixtureCase{
			{ID: "varied", Distances: []string{"0.443", "0.423", "0.453", "0.413", "0.433", "0.433"}, ExpectedStage: "stage_0", ExpectedScore: "0.0010"},
		},
	}
	results, _, err := Replay(context.Background(), f, nil)
	require.NoError(t, err)
	assert.True(t, results[0].Passed, "%v", results[0].Mismatches)
}

func TestReplayRejectsBadThresholds(t *testing.T) {
	f := &Fixture{Thresholds: FixtureThresholds{Stage0: "0.5"}}
	_, _, err := Replay(context.Background(), f, nil)
	assert.ErrorIs(t, err, stage.ErrInvalidThresholds)
}

func TestLoadFixtureErrors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestToInputTimestampFormats(t *testing.T) {
	fc := FixtureCase{ID: "ts", Distances: []string{"1"}, Timestamp: "2024-02-03T04:05:06.789Z"}
	in, err := fc.ToInput()
	require.NoError(t, err)
	require.NotNil(t, in.Timestamp)
	assert.Equal(t, 789_000_000, in.Timestamp.Nanosecond())

	fc.Timestamp = "2024-02-03T04:05:06+02:00"
	in, err = fc.ToInput()
	require.NoError(t, err)
	assert.Equal(t, 2, in.Timestamp.UTC().Hour())

	fc.Timestamp = "yesterday"
	_, err = fc.ToInput()
	assert.Error(t, err)
}
