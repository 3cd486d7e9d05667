package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "herbarium",
		Short: "Extract medicinal plants from the PFAF database into the herb catalog",
		Long: `herbarium reads the PFAF plant database, mines medicinal attributes from
the plant descriptions and merges the resulting herbs into an existing
JSON catalog, enriching entries that are already present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML config file")

	root.AddCommand(newRunCmd(), newRulesCmd(), newVerifyCmd())
	return root
}
