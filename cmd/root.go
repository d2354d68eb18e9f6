// Package cmd implements the wealthpath CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/wealthpath/wealthpath/internal/config"
	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagFile    string
	flagSavings float64
	flagGoal    float64
	flagLever   float64
	flagExport  string
	flagOut     string
	flagDBPath  string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "wealthpath",
	Short: "Financial projection CLI",
	Long: "Project a 12-month savings trajectory from a monthly cash-flow summary,\n" +
		"and see what trimming your largest spending category would do.",
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Scenario database path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")

	addInputFlags(rootCmd)
	addLeverFlag(rootCmd)
	addExportFlags(rootCmd)
}

// runRoot projects the -f summary when given, otherwise prints help.
func runRoot(cmd *cobra.Command, args []string) error {
	if flagFile == "" {
		return cmd.Help()
	}
	return runProject(cmd, args)
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "Cash-flow summary file (.json, .yaml, .toml)")
	cmd.Flags().Float64Var(&flagSavings, "savings", 0, "Current savings (default from config)")
	cmd.Flags().Float64Var(&flagGoal, "goal", 0, "Savings goal (default from config)")
}

func addLeverFlag(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&flagLever, "lever", "l", 0, "Reduction of the top category in percent, 0-50 (default from config)")
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagExport, "export", "", "Write csv or json instead of a table")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "Export file path (default stdout)")
}

// loadConfig reads the config file, warning and falling back to defaults on error.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// resolveProfile applies --savings and --goal over the configured profile.
func resolveProfile(cmd *cobra.Command, cfg config.Config) model.UserProfile {
	p := cfg.UserProfile()
	if cmd.Flags().Changed("savings") {
		p.CurrentSavings = flagSavings
	}
	if cmd.Flags().Changed("goal") {
		p.Goal = flagGoal
	}
	return p
}

// resolveLever applies --lever over the configured default.
func resolveLever(cmd *cobra.Command, cfg config.Config) model.OptimizationLever {
	lever := model.OptimizationLever{ReductionPercent: cfg.Lever.ReductionPercent}
	if cmd.Flags().Changed("lever") {
		lever.ReductionPercent = flagLever
	}
	return lever
}

// openStore opens the scenario database from --db or the config.
func openStore(cfg config.Config) (*store.Store, error) {
	path := flagDBPath
	if path == "" {
		path = cfg.StorePath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario store: %w", err)
	}
	return st, nil
}
