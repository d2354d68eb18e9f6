package cmd

import (
	"fmt"
	"os"

	"github.com/wealthpath/wealthpath/internal/cli"
	"github.com/wealthpath/wealthpath/internal/client"
	"github.com/wealthpath/wealthpath/internal/export"
	"github.com/wealthpath/wealthpath/internal/input"
	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/projection"
	"github.com/wealthpath/wealthpath/internal/validate"

	"github.com/spf13/cobra"
)

var flagRemote string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the 12-month balance for a cash-flow summary",
	RunE:  runProject,
}

func init() {
	addInputFlags(projectCmd)
	addLeverFlag(projectCmd)
	addExportFlags(projectCmd)
	projectCmd.Flags().StringVar(&flagRemote, "remote", "", "Compute on a running wealthpath server (host:port or URL)")
	_ = projectCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	summary, err := input.LoadSummary(flagFile)
	if err != nil {
		return err
	}
	profile := resolveProfile(cmd, cfg)
	lever := resolveLever(cmd, cfg)

	if err := validate.Inputs(summary, profile, lever); err != nil {
		return fmt.Errorf("invalid inputs:\n%w", err)
	}

	var result model.ProjectionResult
	if flagRemote != "" {
		resp, err := client.NewClient(flagRemote).Project(cmd.Context(), summary, profile, lever)
		if err != nil {
			return err
		}
		result = resp.ProjectionResult
	} else {
		result = projection.Compute(summary, profile, lever)
	}
	if err := validate.Result(result); err != nil {
		return fmt.Errorf("invalid inputs:\n%w", err)
	}

	if flagExport != "" {
		return writeExport(result)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FINANCIAL PROJECTION  %d months", model.HorizonMonths)))
	fmt.Println()
	renderProjection(summary, profile, lever, result)
	return nil
}

func writeExport(result model.ProjectionResult) error {
	if flagOut == "" {
		return export.Write(os.Stdout, flagExport, result)
	}
	path, err := export.WriteFile(flagOut, flagExport, result)
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", path)
	}
	return nil
}

func renderProjection(summary model.CashFlowSummary, profile model.UserProfile, lever model.OptimizationLever, r model.ProjectionResult) {
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Current savings", cli.FormatMoney(profile.CurrentSavings)},
		{"Goal", cli.FormatMoney(profile.Goal)},
		{"Monthly spend", cli.FormatMoney(r.TotalMonthlySpend)},
		{"Cash flow", fmt.Sprintf("%s/mo (%s)", cli.FormatSignedMoney(summary.BurnRate), projection.CashFlowLabel(summary.BurnRate))},
	}))
	fmt.Println()

	rows := make([][]string, 0, model.HorizonMonths)
	for i, bal := range r.Series {
		rows = append(rows, []string{cli.FormatMonthLabel(i + 1), cli.FormatMoney(bal)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Balance",
		Headers: []string{"Month", "Balance"},
		Rows:    rows,
	}))
	fmt.Println()

	top := r.TopCategory
	if amt, ok := summary.Amount(r.TopCategory); ok {
		top = fmt.Sprintf("%s (%s/mo)", r.TopCategory, cli.FormatMoney(amt))
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "What-if",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Top category", top},
			{"Reduction", cli.FormatPercent(projection.ClampLever(lever.ReductionPercent))},
			{"Potential savings", cli.FormatMoney(r.PotentialSavings) + "/mo"},
			{"Optimized burn rate", cli.FormatSignedMoney(r.AdjustedBurnRate) + "/mo"},
			{"---"},
			{"Final balance", cli.FormatMoney(r.FinalBalance)},
			{"Goal gap", cli.FormatSignedMoney(r.GoalGap)},
			{"Emergency runway", cli.FormatMonths(r.EmergencyRunwayMonths)},
		},
	}))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.RenderVerdict(r.Verdict(), r.GoalMet))
}
