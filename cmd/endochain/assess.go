package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/endochain/go-core/internal/assessment"
	"github.com/danielpatrickdp/endochain/go-core/internal/leiv"
)

// #region assess-cmd
type assessOptions struct {
	subject   string
	jsonOut   bool
	invariant bool
}

func newAssessCmd(a *app) *cobra.Command {
	opts := &assessOptions{}
	cmd := &cobra.Command{
		Use:   "assess [r1 r2 r3 r4 r5 r6]",
		Short: "Score six radial distances and record the result",
		Long: `Scores six decimal radial distances exactly, classifies the score and
appends an audit record. With no arguments, reads one set of six distances per
line from stdin (separated by spaces or commas) until EOF or "quit".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			chain, backend, err := a.openChain(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()
			engine, err := a.engine(chain)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return assessOne(ctx, cmd.OutOrStdout(), engine, args, opts)
			}
			return assessStream(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), engine, opts)
		},
	}
	cmd.Flags().StringVar(&opts.subject, "subject", "", "subject identifier folded into the input fingerprint")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&opts.invariant, "check-invariance", false, "also verify the score under all twelve electrode relabelings")
	return cmd
}

func assessOne(ctx context.Context, w io.Writer, engine *assessment.Engine, fields []string, opts *assessOptions) error {
	in, err := assessment.DecimalInput(fields, opts.subject, nil)
	if err != nil {
		return err
	}
	res, err := engine.Assess(ctx, in)
	if err != nil {
		return err
	}
	var inv *invarianceReport
	if opts.invariant {
		r, err := checkInvariance(in)
		if err != nil {
			return err
		}
		inv = &r
	}
	if opts.jsonOut {
		return printJSON(w, assessOutput{Assessment: res, Invariance: inv})
	}
	printAssessment(w, res)
	if inv != nil {
		fmt.Fprintf(w, "Invariance:  %t (max drift %s)\n", inv.Invariant, inv.MaxDrift)
	}
	return nil
}

// assessOutput is the --json document: the assessment plus the optional
// relabeling check.
type assessOutput struct {
	assessment.Assessment
	Invariance *invarianceReport `json:"invariance,omitempty"`
}

type invarianceReport struct {
	Invariant bool   `json:"invariant"`
	MaxDrift  string `json:"max_drift"`
}

// assessStream mirrors an interactive read loop: bad lines are reported and
// skipped, the loop continues.
func assessStream(ctx context.Context, r io.Reader, w io.Writer, engine *assessment.Engine, opts *assessOptions) error {
	scanner := bufio.NewScanner(r)
	line := 0
	failed := 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		line++
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}
		fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if err := assessOne(ctx, w, engine, fields, opts); err != nil {
			fmt.Fprintf(w, "line %d: error: %v\n", line, err)
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of the input lines failed", failed)
	}
	return nil
}

func printAssessment(w io.Writer, res assessment.Assessment) {
	fmt.Fprintf(w, "Score:       %s\n", res.Score)
	fmt.Fprintf(w, "Expression:  %s\n", res.Expression)
	fmt.Fprintf(w, "Stage:       %s (confidence %.1f, %s)\n", res.Stage, res.Confidence, res.Reason)
	fmt.Fprintf(w, "Audit:       #%d %s\n", res.Record.Sequence, res.AuditHash)
	fmt.Fprintln(w)
}

func checkInvariance(in assessment.Input) (invarianceReport, error) {
	ok, drift, err := leiv.NewCalculator(nil).VerifyRotationInvariance(in.Distances)
	if err != nil {
		return invarianceReport{}, err
	}
	return invarianceReport{Invariant: ok, MaxDrift: drift.String()}, nil
}

// #endregion assess-cmd
