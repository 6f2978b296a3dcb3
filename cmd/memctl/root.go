package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/emumem/internal/logger"
	"github.com/joshuapare/emumem/mem"
	"github.com/joshuapare/emumem/mem/dirty"
	"github.com/joshuapare/emumem/mem/region"
	"github.com/joshuapare/emumem/pkg/types"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool

	// Memory configuration
	capacity     int
	slots        int
	strategyName string
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Drive the emulated physical memory manager",
	Long: `memctl exercises the emulated memory manager: it replays allocation
traces, runs concurrent process admission workloads, and prints memory maps,
usage series and allocator statistics.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.PersistentFlags().
		IntVar(&capacity, "capacity", types.DefaultCapacity, "Address space size in bytes")
	rootCmd.PersistentFlags().
		IntVar(&slots, "slots", types.DefaultProcessSlots, "Process table capacity")
	rootCmd.PersistentFlags().
		StringVar(&strategyName, "strategy", "first", "Placement strategy: first, next or best")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initLogging routes allocator logs to stderr when verbose output is on or
// EMUMEM_LOG_ALLOC is set.
func initLogging() {
	enabled := verbose || os.Getenv(logger.AllocEnv) != ""
	level := slog.LevelInfo
	if os.Getenv(logger.AllocEnv) != "" {
		level = slog.LevelDebug
	}
	logger.Init(logger.Options{Enabled: enabled && !quiet, Level: level, JSON: jsonOut})
}

// newManager builds a manager from the global flags. A non-nil tracker is
// attached to the address space.
func newManager(dt dirty.DirtyTracker) (*mem.Manager, error) {
	s, err := region.StrategyByName(strategyName)
	if err != nil {
		return nil, err
	}
	opts := []mem.Option{mem.WithCapacity(capacity), mem.WithStrategy(s)}
	if dt != nil {
		opts = append(opts, mem.WithDirtyTracker(dt))
	}
	return mem.New(opts...)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
