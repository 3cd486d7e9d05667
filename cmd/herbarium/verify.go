package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/herbarium/pkg/herbarium/catalog"
	"github.com/cognicore/herbarium/pkg/herbarium/internalerr"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <catalog.json>",
		Short: "Check a catalog for duplicate ids and latin names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := catalog.Decode(f)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidInput, args[0], err)
			}

			report := c.Verify()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total herbs: %d\n", report.Total)
			fmt.Fprintf(out, "Unique IDs: %d\n", report.UniqueIDs)
			for _, d := range report.DuplicateIDs {
				fmt.Fprintf(out, "  duplicate id %q appears %d times\n", d.Value, d.Count)
			}
			for _, d := range report.DuplicateKeys {
				fmt.Fprintf(out, "  duplicate latin name %q appears %d times\n", d.Value, d.Count)
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d duplicate ids, %d duplicate latin names",
					internalerr.ErrDuplicate, len(report.DuplicateIDs), len(report.DuplicateKeys))
			}
			fmt.Fprintln(out, "All IDs are unique")
			return nil
		},
	}
}
