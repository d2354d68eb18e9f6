package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/wealthpath/wealthpath/internal/cli"
	"github.com/wealthpath/wealthpath/internal/export"
	"github.com/wealthpath/wealthpath/internal/input"
	"github.com/wealthpath/wealthpath/internal/projection"
	"github.com/wealthpath/wealthpath/internal/validate"

	"github.com/spf13/cobra"
)

var flagSweepStep float64

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare final balances across lever settings from 0% to 50%",
	RunE:  runSweep,
}

func init() {
	addInputFlags(sweepCmd)
	addExportFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&flagSweepStep, "step", 0, "Lever increment in percent (default from config)")
	_ = sweepCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	summary, err := input.LoadSummary(flagFile)
	if err != nil {
		return err
	}
	profile := resolveProfile(cmd, cfg)
	if err := errors.Join(validate.Summary(summary), validate.Profile(profile)); err != nil {
		return fmt.Errorf("invalid inputs:\n%w", err)
	}

	step := cfg.Lever.SweepStep
	if cmd.Flags().Changed("step") {
		step = flagSweepStep
	}
	points := projection.LeverSweep(summary, profile, step)

	switch flagExport {
	case "":
	case export.FormatCSV:
		if flagOut == "" {
			return export.WriteSweepCSV(os.Stdout, points)
		}
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOut, err)
		}
		if err := export.WriteSweepCSV(f, points); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("sweep export supports csv only, got %q", flagExport)
	}

	top := projection.SelectTopCategory(summary.Categories)

	fmt.Println()
	fmt.Println(cli.RenderTitle("LEVER SWEEP  " + top))
	fmt.Println()

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		goal := "no"
		if p.GoalMet {
			goal = "yes"
		}
		rows = append(rows, []string{
			cli.FormatPercent(p.ReductionPercent),
			cli.FormatMoney(p.PotentialSavings),
			cli.FormatSignedMoney(p.AdjustedBurnRate),
			cli.FormatMoney(p.FinalBalance),
			goal,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Reduction", "Saved/mo", "Burn/mo", "Final", "Goal"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Goal: %s\n\n", cli.FormatMoney(profile.Goal))
	return nil
}
