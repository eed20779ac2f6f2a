// Package main implements samplecheck, a consistency checker for code-sample
// registries. It compares the top-level keys of this project's local
// .code-samples file against the reference file published by the docs and
// reports two sorted lists: keys the reference does not recognize and keys
// the reference expects that are not defined locally.
//
// Usage:
//
//	samplecheck <local-file> <reference-file>
//
// Discrepancies are reported, not treated as failure: the exit code is 0
// whenever both files could be read and parsed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"samplecheck/internal/compare"
	"samplecheck/internal/registry"
	"samplecheck/internal/report"
	"samplecheck/internal/watch"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	// Global flags
	verbose        bool
	noColor        bool
	exclusionsPath string
	allowMissing   []string
	allowIncorrect []string

	// Logger
	logger *zap.Logger
)

// rootCmd runs one comparison and prints the report.
var rootCmd = &cobra.Command{
	Use:   "samplecheck <local-file> <reference-file>",
	Short: "Compare a local code-sample registry against the docs reference",
	Long: `samplecheck diffs the top-level keys of two YAML code-sample registries.

It prints two sections: keys defined locally that the reference file does not
recognize ("Incorrect"), and keys the reference expects that are absent
locally ("Missing"). A fixed set of known, intentional discrepancies is
suppressed; see --exclusions to supply your own lists.

Discrepancies do not fail the run. The exit code is non-zero only when a file
cannot be read or parsed.`,
	Args: cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComparison(args[0], args[1])
	},
}

// keysCmd lists the top-level keys of a single registry file.
var keysCmd = &cobra.Command{
	Use:   "keys <file>",
	Short: "Print the sorted top-level keys of one registry file",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeys,
}

// watchCmd re-runs the comparison whenever either file changes.
var watchCmd = &cobra.Command{
	Use:   "watch <local-file> <reference-file>",
	Short: "Re-run the comparison whenever either registry file changes",
	Long: `Watches both registry files and re-runs the comparison after each change.
Useful while porting a batch of code samples: keep it running in a terminal
and watch the Missing section shrink. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the samplecheck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("samplecheck %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled section headers")
	rootCmd.PersistentFlags().StringVar(&exclusionsPath, "exclusions", "", "YAML file with exclusion lists (replaces the built-in defaults)")
	rootCmd.PersistentFlags().StringArrayVar(&allowMissing, "allow-missing", nil, "Reference key to exempt from the Missing section (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&allowIncorrect, "allow-incorrect", nil, "Local key to exempt from the Incorrect section (repeatable)")

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveExclusions builds the active exclusion lists from the defaults (or
// the --exclusions file) plus any per-run --allow-* additions.
func resolveExclusions() (compare.Exclusions, error) {
	exc := compare.DefaultExclusions()
	if exclusionsPath != "" {
		loaded, err := compare.LoadExclusions(exclusionsPath)
		if err != nil {
			return compare.Exclusions{}, err
		}
		exc = loaded
	}
	exc.NotNeededLocally = append(exc.NotNeededLocally, allowMissing...)
	exc.NotInReference = append(exc.NotInReference, allowIncorrect...)
	return exc, nil
}

// runComparison loads both registries, diffs their key sets and prints the
// report to stdout. Either both sections print or, on any error, neither.
func runComparison(localPath, refPath string) error {
	exc, err := resolveExclusions()
	if err != nil {
		return err
	}

	local, err := registry.Load(localPath)
	if err != nil {
		return err
	}
	ref, err := registry.Load(refPath)
	if err != nil {
		return err
	}
	logger.Debug("registries loaded",
		zap.String("local", localPath), zap.Int("local_keys", len(local)),
		zap.String("reference", refPath), zap.Int("reference_keys", len(ref)))

	rep := compare.Compare(local, ref, exc)
	logger.Debug("comparison complete",
		zap.Int("incorrect", len(rep.Incorrect)), zap.Int("missing", len(rep.Missing)))

	return report.Render(os.Stdout, rep, !noColor)
}

func runKeys(cmd *cobra.Command, args []string) error {
	reg, err := registry.Load(args[0])
	if err != nil {
		return err
	}
	for _, k := range reg.Keys() {
		fmt.Println(k)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	w := &watch.Watcher{
		Paths:  args,
		Logger: logger,
		Func: func(context.Context) error {
			runID := uuid.NewString()
			logger.Info("running comparison", zap.String("run_id", runID))
			if err := runComparison(args[0], args[1]); err != nil {
				return fmt.Errorf("run %s: %w", runID, err)
			}
			fmt.Println()
			return nil
		},
	}
	return w.Run(ctx)
}
