package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crimson-sun/logrotate/internal/config"
	"github.com/crimson-sun/logrotate/internal/engine"
	"github.com/crimson-sun/logrotate/internal/engine/chain"
	"github.com/crimson-sun/logrotate/internal/engine/gate"
	"github.com/crimson-sun/logrotate/internal/logging"
	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
	"github.com/crimson-sun/logrotate/internal/output/file"
	"github.com/crimson-sun/logrotate/internal/output/multi"
	"github.com/crimson-sun/logrotate/internal/output/stdout"
	"github.com/crimson-sun/logrotate/internal/output/text"
	"github.com/crimson-sun/logrotate/internal/pipeline"
	"github.com/crimson-sun/logrotate/internal/source"
	"github.com/crimson-sun/logrotate/internal/source/args"

	// Register the input list source.
	_ "github.com/crimson-sun/logrotate/internal/source/jsonfile"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Rotate every configured log that exceeds the threshold",
		Long: `Rotate every configured log file whose size exceeds the threshold.

Examples:
  logrotate run /var/log/app/app.log
  logrotate run --paths-file /etc/logrotate/paths.json --max-entries 5
  logrotate run --every 10m --report-file /var/log/rotate/report.log
  logrotate run --watch /var/log/app/app.log`,
		RunE: func(cmd *cobra.Command, paths []string) error {
			return runRotate(cmd, paths, false)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "compute and report actions without touching files")
	cmd.Flags().Duration("every", 0, "repeat the run at this interval until interrupted")
	cmd.Flags().Bool("watch", false, "rotate again whenever a configured log is written")
	cmd.Flags().Bool("continue-on-error", false, "keep processing later logs after a failed rotation")
	return cmd
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [paths...]",
		Short: "Show what run would do without touching any file",
		RunE: func(cmd *cobra.Command, paths []string) error {
			return runRotate(cmd, paths, true)
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("paths-file", "", "JSON list of {\"path\": ...} records to rotate")
	f.Int("max-entries", chain.DefaultDepth, fmt.Sprintf("numbered backups to keep (1..%d)", chain.MaxDepth))
	f.Int64("threshold-kb", gate.DefaultThresholdKB, "rotate files larger than this many kilobytes (1 KB = 1000 bytes)")
	f.StringP("output", "o", "text", "outcome format: text, json")
	f.String("verbosity", "standard", "outcome detail: minimal, standard, full")
	f.Bool("pretty", false, "indent JSON outcomes")
	f.String("report-file", "", "append NDJSON outcomes to this file")
	f.Int64("report-max-bytes", 0, "rotate the report file past this size (requires a .log report file)")
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":         config.KeyLogLevel,
	"log-format":        config.KeyLogFormat,
	"log-file":          config.KeyLogFile,
	"paths-file":        config.KeyPathsFile,
	"max-entries":       config.KeyMaxEntries,
	"threshold-kb":      config.KeyThresholdKB,
	"dry-run":           config.KeyDryRun,
	"every":             config.KeyInterval,
	"continue-on-error": config.KeyContinueOnError,
	"output":            config.KeyOutput,
	"verbosity":         config.KeyVerbosity,
	"pretty":            config.KeyPretty,
	"report-file":       config.KeyReportFile,
	"report-max-bytes":  config.KeyReportMaxBytes,
}

// loadConfig layers changed flags over the environment.
func loadConfig(cmd *cobra.Command, paths []string, plan bool) (config.Config, error) {
	v := config.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return config.Config{}, err
	}
	cfg := config.FromViper(v)

	if len(paths) > 0 {
		cfg.Source.Provider = args.Name
		cfg.Source.Args = paths
	}
	if plan {
		cfg.Rotation.DryRun = true
	}
	if f := cmd.Flags().Lookup("watch"); f != nil {
		cfg.Rotation.Watch = f.Value.String() == "true"
	}
	return cfg, cfg.Validate()
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func runRotate(cmd *cobra.Command, paths []string, plan bool) error {
	cfg, err := loadConfig(cmd, paths, plan)
	if err != nil {
		return err
	}

	logger, closer := logging.Init(logging.Options{
		Level: logging.ParseLevel(cfg.Logging.Level),
		JSON:  cfg.Logging.JSON,
		File:  cfg.Logging.File,
	})
	defer closer.Close()

	eng := engine.New(
		gate.New(cfg.Rotation.ThresholdKB),
		chain.New(cfg.Rotation.MaxEntries),
		engine.WithLogger(logger),
		engine.WithDryRun(cfg.Rotation.DryRun),
	)

	out, err := buildOutput(cfg, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}

	srcCfg := source.Config{Provider: cfg.Source.Provider, Path: cfg.Source.Path, Args: cfg.Source.Args}
	src, err := source.Open(srcCfg)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(cfg.Rotation.ContinueOnError),
	}
	if cfg.Output.Format == "text" {
		errOut := cmd.ErrOrStderr()
		opts = append(opts, pipeline.WithReportHook(func(r model.RunReport) {
			fmt.Fprintln(errOut, text.Summary(r))
		}))
	}
	p := pipeline.New(src, srcCfg, eng, out, opts...)
	defer func() {
		if cerr := p.Close(); cerr != nil {
			logger.Error("closing output", "error", cerr)
		}
	}()

	ctx := cmd.Context()
	logger.Debug("starting", "source", cfg.Source.Provider, "max_entries", cfg.Rotation.MaxEntries,
		"threshold_kb", cfg.Rotation.ThresholdKB, "dry_run", cfg.Rotation.DryRun)

	switch {
	case cfg.Rotation.Watch:
		err = p.Watch(ctx)
	case cfg.Rotation.Interval > 0:
		err = p.Tick(ctx, cfg.Rotation.Interval)
	default:
		_, err = p.Run(ctx)
		if err != nil && errors.Is(err, context.Canceled) {
			// Remaining entries were never looked at.
			return fmt.Errorf("run interrupted before every entry was processed: %w", err)
		}
	}
	return err
}

// buildOutput assembles the terminal output and the optional report file.
func buildOutput(cfg config.Config, w io.Writer, logger *slog.Logger) (output.Output, error) {
	verbosity := output.ParseVerbosity(cfg.Output.Verbosity)

	var primary output.Output
	if cfg.Output.Format == "json" {
		primary = stdout.New(verbosity, cfg.Output.Pretty)
	} else {
		primary = text.New(w, verbosity)
	}
	var report output.Output
	if cfg.Output.ReportFile != "" {
		var opts []file.Option
		if cfg.Output.ReportMaxBytes > 0 {
			// The report file rotates for real even during a dry run.
			rot := engine.New(gate.New(0), chain.New(cfg.Rotation.MaxEntries), engine.WithLogger(logger))
			opts = append(opts, file.WithMaxSize(cfg.Output.ReportMaxBytes, rot))
		}
		f, err := file.New(cfg.Output.ReportFile, output.Full, opts...)
		if err != nil {
			return nil, err
		}
		report = f
	}
	return multi.New(primary, report), nil
}
