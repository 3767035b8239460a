// Command tunetrace analyzes a twiddle tuning run and prints a summary of the
// reconstructed series, optionally exporting them to a binary archive.
package main

import (
	"fmt"
	"os"

	"github.com/arloliu/tunetrace"
	"github.com/arloliu/tunetrace/config"
	"github.com/arloliu/tunetrace/event"
	"github.com/arloliu/tunetrace/pipeline"
	"github.com/arloliu/tunetrace/report"
	"github.com/arloliu/tunetrace/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	noDiscard  bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "tunetrace [logfile]",
		Short: "Reconstruct time series from a twiddle tuning run",
		Long: `tunetrace reads a twiddle tuning log and the CTE telemetry recorded next to it,
infers how many telemetry samples correspond to one parameter update and
prints a summary of every reconstructed channel.

The log defaults to twiddle.out and the telemetry to cte.csv. A missing
telemetry file is reported and the run continues without it.

Settings are read from tunetrace.yaml (in . or ~/.config/tunetrace), then
TUNETRACE_* environment variables, then flags.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.analyze,
	}

	flags := rootCmd.Flags()
	flags.String("telemetry", "cte.csv", "CTE telemetry CSV")
	flags.Int("nparam", event.DefaultParamCount, "parameter vector arity")
	flags.Duration("discard-window", telemetry.DefaultDiscardWindow, "drop telemetry recorded this long after the first sample")
	flags.BoolVar(&a.noDiscard, "no-discard", false, "keep all telemetry")
	flags.String("unit", "min", "display time unit: ms, s or min")
	flags.String("archive", "", "write the reconstructed channels to this archive file")
	flags.String("compression", "zstd", "archive compression: none, zstd, s2 or lz4")
	flags.String("byte-order", "little", "archive byte order: little, big or native")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&a.configFile, "config", "", "configuration file")
	persistent.String("format", "text", "summary format: text or yaml")
	persistent.BoolP("verbose", "v", false, "enable debug logging")

	bind := map[string]string{
		config.KeyTelemetry:     "telemetry",
		config.KeyParamCount:    "nparam",
		config.KeyDiscardWindow: "discard-window",
		config.KeyUnit:          "unit",
		config.KeyArchive:       "archive",
		config.KeyCompression:   "compression",
		config.KeyByteOrder:     "byte-order",
	}
	for key, name := range bind {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}
	_ = a.v.BindPFlag(config.KeyFormat, persistent.Lookup("format"))
	_ = a.v.BindPFlag(config.KeyVerbose, persistent.Lookup("verbose"))

	rootCmd.AddCommand(newInspectCmd(a))

	return rootCmd
}

// setup resolves the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.noDiscard {
		a.v.Set(config.KeyDiscard, false)
	}

	cfg, used, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if cfg.Verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if used != "" {
		a.logger.Debug("configuration loaded", zap.String("file", used))
	}

	return nil
}

func (a *app) analyze(cmd *cobra.Command, args []string) error {
	logPath := a.cfg.Log
	if len(args) > 0 {
		logPath = args[0]
	}

	opts, err := a.cfg.PipelineOptions()
	if err != nil {
		return err
	}
	opts = append(opts, pipeline.WithLogger(a.logger))

	bundle, err := tunetrace.AnalyzeFiles(logPath, a.cfg.Telemetry, opts...)
	if err != nil {
		return err
	}

	if a.cfg.Archive != "" {
		archiveOpts, err := a.cfg.ArchiveOptions()
		if err != nil {
			return err
		}
		if err := tunetrace.Export(bundle, a.cfg.Archive, archiveOpts...); err != nil {
			return err
		}
		a.logger.Info("archive written", zap.String("path", a.cfg.Archive))
	}

	f, err := a.cfg.ReportFormat()
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), report.Summarize(bundle), f)
}
