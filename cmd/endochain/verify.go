package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/endochain/go-core/internal/audit"
)

// #region verify-cmd
func newVerifyCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the integrity of the stored audit chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			records, err := backend.Load(ctx)
			if err != nil {
				return &audit.StorageError{Op: "load", Err: err}
			}
			rep := audit.VerifyRecords(records, a.hasher())

			w := cmd.OutOrStdout()
			if jsonOut {
				if err := printJSON(w, rep); err != nil {
					return err
				}
			} else if rep.Valid {
				fmt.Fprintf(w, "chain valid: %d records\n", rep.Length)
			} else {
				v := rep.Violation
				fmt.Fprintf(w, "chain INVALID at record %d: %s\n  expected %s\n  got      %s\n", v.Index, v.Kind, v.Expected, v.Got)
			}
			return rep.Err()
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the report as JSON")
	return cmd
}

// #endregion verify-cmd
