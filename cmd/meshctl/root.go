package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/meshkit/internal/config"
	"github.com/joshuapare/meshkit/internal/logger"
	"github.com/joshuapare/meshkit/mesh/memprobe"
	"github.com/joshuapare/meshkit/mesh/plan"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	envFile    string
	detectedMB int64

	// Set up by PersistentPreRunE
	appConfig = config.Default()
	appLog    = logger.Discard()
	closeLog  = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "meshctl",
	Short: "Plan and exercise mesh entity pools",
	Long: `meshctl sizes the entity pools of a surface mesh against a memory
budget and exercises them. It reports the capacities the planner picks for a
given mesh, the memory the host reports, and the behavior of the pools under
a random create/delete workload.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().
		Int64Var(&detectedMB, "detected-mb", 0, "Pretend the host has this much memory (MB) instead of probing")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger. Verbose lowers the log
// level to debug, quiet raises it to error.
func setup() error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	opts := logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		LogDir: cfg.Logging.Dir,
	}
	switch {
	case quiet:
		opts.Level = "error"
	case verbose:
		opts.Level = "debug"
	}
	log, closeFn, err := logger.New(opts)
	if err != nil {
		return err
	}

	appConfig, appLog, closeLog = cfg, log, closeFn
	return nil
}

// newPlanner builds a planner from the loaded configuration.
func newPlanner(base plan.Config) (*plan.Planner, error) {
	return plan.New(appConfig.Plan(base), appLog)
}

// probe returns the memory probe selected by the global flags.
func probe() memprobe.Probe {
	if detectedMB > 0 {
		return memprobe.Fixed(uint64(detectedMB) * plan.MB)
	}
	return memprobe.Default()
}

// budget returns the --mem flag when set, the configured budget otherwise.
func budget(cmd *cobra.Command, flag int64) int64 {
	if cmd != nil && cmd.Flags().Changed("mem") {
		return flag
	}
	return appConfig.Memory.BudgetMB
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
