package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/herbarium/pkg/herbarium/config"
	"github.com/cognicore/herbarium/pkg/herbarium/mine"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule tables as YAML",
		Long: `Print the rule tables the miner would run with: the built-in tables
overlaid with the file given by --rules (or the rules key of the config
file). The output is itself a valid rule file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rs, err := config.LoadRules(cfg.Rules)
			if err != nil {
				return err
			}
			return config.EncodeRules(cmd.OutOrStdout(), mine.New(rs).Rules())
		},
	}
	cmd.Flags().String("rules", "", "YAML rule-table overrides")
	return cmd
}
