package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/crimson-sun/logrotate/internal/engine/chain"
	"github.com/crimson-sun/logrotate/internal/engine/gate"
	"github.com/crimson-sun/logrotate/internal/model"
)

// EnvPrefix is joined to every key with a further underscore, so the key
// max_entries is read from LOG_ROTATOR__MAX_ENTRIES.
const EnvPrefix = "LOG_ROTATOR_"

// Keys shared by the env layer and the CLI flag bindings.
const (
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyLogFile         = "log_file"
	KeyPathsFile       = "logger_json_file_path"
	KeyMaxEntries      = "max_entries"
	KeyThresholdKB     = "threshold_kb"
	KeyDryRun          = "dry_run"
	KeyContinueOnError = "continue_on_error"
	KeyInterval        = "interval"
	KeyOutput          = "output"
	KeyVerbosity       = "verbosity"
	KeyPretty          = "output_pretty"
	KeyReportFile      = "report_file"
	KeyReportMaxBytes  = "report_max_bytes"
)

// Config holds all logrotate configuration.
type Config struct {
	Rotation RotationConfig
	Source   SourceConfig
	Output   OutputConfig
	Logging  LoggingConfig
}

// RotationConfig holds engine and run-loop settings.
type RotationConfig struct {
	MaxEntries      int   // chain depth: backups .0 .. MaxEntries-1
	ThresholdKB     int64 // files strictly larger rotate
	DryRun          bool
	ContinueOnError bool
	Interval        time.Duration // 0 = single run
	Watch           bool
}

// SourceConfig selects where the list of log paths comes from.
type SourceConfig struct {
	Provider string // "jsonfile" or "args"
	Path     string
	Args     []string
}

// OutputConfig holds outcome destination settings.
type OutputConfig struct {
	Format         string // "text" or "json"
	Verbosity      string // "minimal", "standard", "full"
	Pretty         bool
	ReportFile     string
	ReportMaxBytes int64 // 0 = report file never rotates
}

// LoggingConfig holds diagnostics settings.
type LoggingConfig struct {
	Level string
	JSON  bool
	File  string
}

// NewViper returns a viper instance wired to the environment with every
// default set. Callers may bind flags onto it before calling FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyPathsFile, "")
	v.SetDefault(KeyMaxEntries, chain.DefaultDepth)
	v.SetDefault(KeyThresholdKB, gate.DefaultThresholdKB)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyContinueOnError, false)
	v.SetDefault(KeyInterval, time.Duration(0))
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyVerbosity, "standard")
	v.SetDefault(KeyPretty, false)
	v.SetDefault(KeyReportFile, "")
	v.SetDefault(KeyReportMaxBytes, 0)
	return v
}

// FromViper builds a Config from v, which should come from NewViper. The
// source provider is "jsonfile"; the CLI switches it to "args" when paths are
// given positionally.
func FromViper(v *viper.Viper) Config {
	return Config{
		Rotation: RotationConfig{
			MaxEntries:      v.GetInt(KeyMaxEntries),
			ThresholdKB:     v.GetInt64(KeyThresholdKB),
			DryRun:          v.GetBool(KeyDryRun),
			ContinueOnError: v.GetBool(KeyContinueOnError),
			Interval:        v.GetDuration(KeyInterval),
		},
		Source: SourceConfig{
			Provider: "jsonfile",
			Path:     v.GetString(KeyPathsFile),
		},
		Output: OutputConfig{
			Format:         strings.ToLower(v.GetString(KeyOutput)),
			Verbosity:      v.GetString(KeyVerbosity),
			Pretty:         v.GetBool(KeyPretty),
			ReportFile:     v.GetString(KeyReportFile),
			ReportMaxBytes: v.GetInt64(KeyReportMaxBytes),
		},
		Logging: LoggingConfig{
			Level: v.GetString(KeyLogLevel),
			JSON:  strings.EqualFold(v.GetString(KeyLogFormat), "json"),
			File:  v.GetString(KeyLogFile),
		},
	}
}

// EnvName returns the environment variable that feeds key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// Validate checks the configuration for errors that would cause failures at
// runtime. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	fail := func(key string, format string, args ...any) {
		errs = append(errs, model.NewError(model.KindConfig, EnvName(key), fmt.Errorf(format, args...)))
	}

	if c.Rotation.MaxEntries < 1 || c.Rotation.MaxEntries > chain.MaxDepth {
		fail(KeyMaxEntries, "must be within 1..%d, got %d", chain.MaxDepth, c.Rotation.MaxEntries)
	}
	if c.Rotation.ThresholdKB < 0 {
		fail(KeyThresholdKB, "must not be negative, got %d", c.Rotation.ThresholdKB)
	}
	if c.Rotation.Interval < 0 {
		fail(KeyInterval, "must not be negative, got %s", c.Rotation.Interval)
	}
	if c.Rotation.Interval > 0 && c.Rotation.Watch {
		fail(KeyInterval, "cannot combine an interval with watch mode")
	}

	switch c.Source.Provider {
	case "jsonfile":
		if c.Source.Path == "" {
			fail(KeyPathsFile, "no input list configured and no paths given")
		}
	case "args":
		if len(c.Source.Args) == 0 {
			errs = append(errs, model.NewError(model.KindConfig, "args", errors.New("no paths given")))
		}
	default:
		errs = append(errs, model.NewError(model.KindConfig, "provider", fmt.Errorf("unknown source %q", c.Source.Provider)))
	}

	switch c.Output.Format {
	case "text", "json":
	default:
		fail(KeyOutput, "must be text or json, got %q", c.Output.Format)
	}
	if c.Output.ReportMaxBytes < 0 {
		fail(KeyReportMaxBytes, "must not be negative, got %d", c.Output.ReportMaxBytes)
	}
	if c.Output.ReportMaxBytes > 0 && c.Output.ReportFile != "" && !strings.HasSuffix(c.Output.ReportFile, "."+model.HeadExt) {
		fail(KeyReportFile, "must end in .%s when %s is set", model.HeadExt, EnvName(KeyReportMaxBytes))
	}

	return errors.Join(errs...)
}
