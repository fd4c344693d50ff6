package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/endochain/go-core/internal/glyph"
	"github.com/danielpatrickdp/endochain/go-core/internal/leiv"
)

// #region constants-cmd
func newConstantsCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "constants",
		Short: "Print the geometric constant table and its fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := glyph.Default()
			th, err := a.cfg.StageThresholds()
			if err != nil {
				return err
			}
			ok, msg := table.VerifySymmetry()
			fp := table.Fingerprint(th.Strings()...)
			radii, err := leiv.ElectrodeRadii(table)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				type row struct {
					Name   string  `json:"name"`
					Layer  string  `json:"layer"`
					X      string  `json:"x"`
					Y      string  `json:"y"`
					XFloat float64 `json:"x_float"`
					YFloat float64 `json:"y_float"`
				}
				rows := make([]row, 0, len(table.All()))
				for _, p := range table.All() {
					x, y := p.Float()
					rows = append(rows, row{p.Name, string(p.Layer), p.X.String(), p.Y.String(), x, y})
				}
				return printJSON(w, map[string]any{
					"points":           rows,
					"symmetry_ok":      ok,
					"symmetry":         msg,
					"fingerprint":      fp,
					"electrode_radius": radii[0].String(),
				})
			}

			fmt.Fprintf(w, "%-16s  %-22s  %-34s  %s\n", "Name", "Layer", "X", "Y")
			for _, p := range table.All() {
				fmt.Fprintf(w, "%-16s  %-22s  %-34s  %s\n", p.Name, p.Layer, p.X, p.Y)
			}
			fmt.Fprintf(w, "\nElectrode radius: %s\n", radii[0])
			fmt.Fprintf(w, "Symmetry:         %s\n", msg)
			fmt.Fprintf(w, "Fingerprint:      %s\n", fp)
			if !ok {
				return fmt.Errorf("constant table failed the symmetry check")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// #endregion constants-cmd
