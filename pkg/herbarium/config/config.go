// Package config loads the run configuration and the rule-table files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/cognicore/herbarium/pkg/herbarium/internalerr"
)

// EnvPrefix is prepended to every environment override, e.g.
// HERBARIUM_CATALOG_OUTPUT.
const EnvPrefix = "HERBARIUM"

// Defaults used when neither the config file, the environment nor a flag
// sets a value.
const (
	DefaultSource   = "data.sqlite"
	DefaultExisting = "herbs-data-merged.json"
	DefaultOutput   = "herbs-data-pfaf-merged.json"
)

// Config is the configuration of one pipeline run.
type Config struct {
	Source  string  `mapstructure:"source" validate:"required"`
	Catalog Catalog `mapstructure:"catalog"`
	Rules   string  `mapstructure:"rules"`
	Log     Log     `mapstructure:"log"`
	DryRun  bool    `mapstructure:"dry-run"`
}

// Catalog names the existing catalog and the merged output file.
type Catalog struct {
	Existing string `mapstructure:"existing"`
	Output   string `mapstructure:"output"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=auto text json"`
	File   string `mapstructure:"file"`
}

// NewViper creates a viper instance with defaults and environment binding.
// When path is non-empty the YAML file is read; a missing file is an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("source", DefaultSource)
	v.SetDefault("catalog.existing", DefaultExisting)
	v.SetDefault("catalog.output", DefaultOutput)
	v.SetDefault("rules", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.file", "")
	v.SetDefault("dry-run", false)

	// HERBARIUM_CATALOG_OUTPUT maps to catalog.output, HERBARIUM_DRY_RUN to dry-run
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: config file: %v", internalerr.ErrInvalidConfig, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints. An output path is required unless the
// run is a dry run.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fieldMessage(e))
		}
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	if !c.DryRun && c.Catalog.Output == "" {
		return fmt.Errorf("%w: catalog.output is required", internalerr.ErrInvalidConfig)
	}
	return nil
}

func fieldMessage(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, e.Tag())
	}
}
