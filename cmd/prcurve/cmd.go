package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/prcurve/config"
	"github.com/YuminosukeSato/prcurve/curve"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
)

// debounceDelay is how long --watch waits for more writes before
// re-rendering.
const debounceDelay = 300 * time.Millisecond

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// runFlags select and override the run configuration.
type runFlags struct {
	configPath string
	preset     string
	outDir     string
	format     string
	lenient    bool
	noMarkers  bool
	workers    int
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Precision-recall curve plotter",
		Long: `prcurve loads pre-computed precision-recall curves from CSV files and
draws them as one combined figure plus one figure per classifier family.

Each label's family is the part before its first underscore (KNN_GFD -> KNN).
A label's color comes from its family's ramp, taken at a shade chosen by the
label's position in the catalog; markers cycle with the same period.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "Log format (console, json)")

	cmd.AddCommand(renderCmd(&g), inspectCmd(&g), versionCmd())
	return cmd
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&f.preset, "preset", "", fmt.Sprintf("Built-in configuration %v", config.Presets()))
	cmd.Flags().BoolVar(&f.lenient, "lenient", false, "Accept extra CSV columns (warns instead of failing)")
	cmd.Flags().BoolVar(&f.noMarkers, "no-markers", false, "Draw lines without point markers")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "Concurrent CSV loads (0 = one per CPU)")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
}

func renderCmd(g *globalFlags) *cobra.Command {
	var (
		f      runFlags
		family string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the combined figure and one figure per family",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, &f)
			if err != nil {
				return err
			}
			paths, err := a.render(family)
			if err != nil {
				return err
			}
			printPaths(cmd, paths)
			if !watch {
				return nil
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return a.watch(ctx, debounceDelay, func() {
				paths, err := a.render(family)
				if err != nil {
					// Keep watching; the next write may fix the source.
					a.logger.Error("Re-render failed", err)
					return
				}
				printPaths(cmd, paths)
			})
		},
	}

	addRunFlags(cmd, &f)
	cmd.Flags().StringVar(&f.outDir, "out", "", "Output directory (overrides output.dir)")
	cmd.Flags().StringVar(&f.format, "format", "", "Image format: png, svg or pdf (overrides output.format)")
	cmd.Flags().StringVar(&family, "family", "", "Render only this family's figure")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render when a catalog source changes")
	return cmd
}

func inspectCmd(g *globalFlags) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List catalog entries with their family, style and data ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, &f)
			if err != nil {
				return err
			}
			return a.inspect(cmd.OutOrStdout())
		},
	}

	addRunFlags(cmd, &f)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func printPaths(cmd *cobra.Command, paths []string) {
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
}

// runLogs hands out the loggers of one invocation. Every logger carries the
// run id and names the component it serves.
type runLogs struct {
	provider *log.Provider
	runID    string
}

func (r runLogs) named(component string) log.Logger {
	return r.provider.GetLoggerWithName(component).With(log.RunIDKey, r.runID)
}

// newLogs builds the zerolog provider for one run and routes library
// warnings into it.
func newLogs(cmd *cobra.Command, g *globalFlags) (runLogs, error) {
	level, err := log.ParseLevel(g.logLevel)
	if err != nil {
		return runLogs{}, err
	}
	format, err := log.ParseFormat(g.logFormat)
	if err != nil {
		return runLogs{}, err
	}
	logs := runLogs{
		provider: log.NewProvider(cmd.ErrOrStderr(), level, format),
		runID:    uuid.NewString(),
	}
	errors.SetZerologWarnFunc(log.WarningSink(logs.named("curve")))
	return logs, nil
}

// loadConfig resolves the configuration from --config or --preset and
// applies the flag overrides the user set explicitly.
func loadConfig(cmd *cobra.Command, f *runFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromFile(f.configPath)
	} else {
		cfg, err = config.Preset(f.preset)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if f.lenient {
		cfg.Schema = curve.SchemaLenient.String()
	}
	if f.noMarkers {
		cfg.Markers = false
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
