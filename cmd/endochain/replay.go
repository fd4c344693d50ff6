package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/endochain/go-core/internal/replay"
)

// #region replay-cmd
func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <fixture.json>",
		Short: "Re-run a fixture of recorded assessments and compare outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := replay.LoadFixture(args[0])
			if err != nil {
				return err
			}
			results, summary, err := replay.Replay(cmd.Context(), f, a.logger)
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), results, summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d cases diverged", summary.Failed, summary.Total)
			}
			return nil
		},
	}
}

// printComparison outputs a comparison table of replayed cases.
func printComparison(w io.Writer, results []replay.Result, s replay.Summary) {
	fmt.Fprintf(w, "%-20s| %-10s| %-22s| %s\n", "Case", "Stage", "Score", "Match")
	fmt.Fprintf(w, "%-20s+%-11s+%-23s+%s\n", "--------------------", "-----------", "-----------------------", "------")
	for _, r := range results {
		match := "OK"
		if !r.Passed {
			match = "DIFF"
		}
		stage := string(r.Stage)
		if r.Err != nil {
			stage = "error"
		}
		fmt.Fprintf(w, "%-20s| %-10s| %-22s| %s\n", r.CaseID, stage, r.Score, match)
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "    %s\n", m)
		}
	}
	fmt.Fprintf(w, "\nSummary: %d total, %d match, %d diverge\n", s.Total, s.Passed, s.Failed)
	fmt.Fprintf(w, "Chain:   %d records, valid=%t, head %s\n", s.Records, s.ChainValid, s.HeadHash)
}

// #endregion replay-cmd
