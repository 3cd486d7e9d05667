package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/herbarium/internal/logger"
	"github.com/cognicore/herbarium/pkg/herbarium"
	"github.com/cognicore/herbarium/pkg/herbarium/catalog"
	"github.com/cognicore/herbarium/pkg/herbarium/config"
	"github.com/cognicore/herbarium/pkg/herbarium/mine"
	"github.com/cognicore/herbarium/pkg/herbarium/source/sqlite"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"source":     "source",
	"existing":   "catalog.existing",
	"output":     "catalog.output",
	"rules":      "rules",
	"dry-run":    "dry-run",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract, transform and merge PFAF plants into the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, logFile := logger.Open(logger.Config{
				Writer: cmd.ErrOrStderr(),
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			})
			defer logFile.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			h, cleanup, err := buildPipeline(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := h.Run(ctx)
			if err != nil {
				return err
			}
			if res.Written {
				log.Info("catalog written", "path", cfg.Catalog.Output, "herbs", res.Catalog.Total)
			}
			return res.WriteReport(cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.String("source", "", "PFAF SQLite database (default "+config.DefaultSource+")")
	f.String("existing", "", "existing catalog JSON (default "+config.DefaultExisting+")")
	f.String("output", "", "merged catalog JSON (default "+config.DefaultOutput+")")
	f.String("rules", "", "YAML rule-table overrides")
	f.Bool("dry-run", false, "run the pipeline without writing the output")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("log-format", "", "log format: auto, text, json")
	f.String("log-file", "", "also write JSON logs to this file, rotated by size")
	return cmd
}

// loadConfig layers defaults, the config file, HERBARIUM_* variables and
// the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	v, err := config.NewViper(path)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(cmd, v); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		fl := cmd.Flags().Lookup(name)
		if fl == nil || !fl.Changed {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return err
		}
	}
	return nil
}

func buildPipeline(ctx context.Context, cfg *config.Config, log *slog.Logger) (*herbarium.Herbarium, func(), error) {
	rules, err := config.LoadRules(cfg.Rules)
	if err != nil {
		return nil, nil, err
	}

	log.Info("connecting to PFAF database", "path", cfg.Source)
	src, err := sqlite.Open(ctx, cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := src.CheckSchema(ctx); err != nil {
		src.Close()
		return nil, nil, err
	}
	if log.Enabled(ctx, slog.LevelDebug) {
		cols, err := src.Columns(ctx, "plants")
		if err == nil {
			log.Debug("plants table columns", "columns", strings.Join(cols, ", "))
		}
	}

	h := herbarium.New(herbarium.Options{
		Source: src,
		Catalog: &catalog.FileStore{
			Input:  cfg.Catalog.Existing,
			Output: cfg.Catalog.Output,
			Log:    log,
		},
		Miner:  mine.New(rules),
		Logger: log,
		DryRun: cfg.DryRun,
	})
	cleanup := func() {
		if err := h.Close(); err != nil {
			log.Warn("close source", "error", err)
		}
	}
	return h, cleanup, nil
}
