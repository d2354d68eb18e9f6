package cmd

import (
	"fmt"

	"github.com/wealthpath/wealthpath/internal/cli"
	"github.com/wealthpath/wealthpath/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Profile]")
	fmt.Printf("    Current savings: %s\n", cli.FormatMoney(cfg.Profile.CurrentSavings))
	fmt.Printf("    Goal:            %s\n", cli.FormatMoney(cfg.Profile.Goal))
	fmt.Println()

	fmt.Println("  [Lever]")
	fmt.Printf("    Reduction:  %s\n", cli.FormatPercent(cfg.Lever.ReductionPercent))
	fmt.Printf("    Sweep step: %s\n", cli.FormatPercent(cfg.Lever.SweepStep))
	fmt.Println()

	fmt.Println("  [Store]")
	dbPath := cfg.StorePath()
	if flagDBPath != "" {
		dbPath = flagDBPath + " (--db)"
	}
	fmt.Printf("    Database: %s\n", dbPath)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:   %s\n", cfg.Server.Addr)
	fmt.Printf("    Max batch: %d\n", cfg.Server.MaxBatch)
	fmt.Println()

	fmt.Printf("  Edit %s to change these defaults.\n", config.Path())
	return nil
}
