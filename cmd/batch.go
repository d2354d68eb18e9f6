package cmd

import (
	"fmt"
	"os"

	"github.com/wealthpath/wealthpath/internal/cli"
	"github.com/wealthpath/wealthpath/internal/export"
	"github.com/wealthpath/wealthpath/internal/pipeline"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Project every saved scenario and rank the outcomes",
	Args:  cobra.NoArgs,
	RunE:  runBatch,
}

func init() {
	addExportFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	st, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	scenarios, err := st.ListScenarios()
	if err != nil {
		return fmt.Errorf("listing scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		fmt.Println("\n  No saved scenarios to project.")
		return nil
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Projecting %s", cli.RenderProgressBar(current, total, 20))
		}
	}
	br := pipeline.ProjectAll(scenarios, progressFn)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Projected %d scenarios (%d invalid)              \n", br.Projected, br.Invalid)
	}

	if flagExport != "" {
		if flagExport != export.FormatCSV {
			return fmt.Errorf("batch export supports csv only, got %q", flagExport)
		}
		if flagOut == "" {
			return export.WriteBatchCSV(os.Stdout, br.Results)
		}
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOut, err)
		}
		if err := export.WriteBatchCSV(f, br.Results); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	stats := pipeline.Aggregate(br)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BATCH PROJECTION  %d scenarios", br.Total)))
	fmt.Println()

	ranked := pipeline.RankByFinalBalance(br)
	rows := make([][]string, 0, len(ranked))
	for _, sr := range ranked {
		rows = append(rows, []string{
			sr.Scenario.Name,
			sr.Result.TopCategory,
			cli.FormatMoney(sr.Result.PotentialSavings),
			cli.FormatMoney(sr.Result.FinalBalance),
			cli.FormatSignedMoney(sr.Result.GoalGap),
			sr.Result.Verdict(),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Ranked by final balance",
		Headers: []string{"Scenario", "Top", "Saved/mo", "Final", "Gap", "Verdict"},
		Rows:    rows,
	}))
	fmt.Println()

	if stats.Scenarios > 0 {
		fmt.Print(cli.RenderKeyValues([][2]string{
			{"Goals met", fmt.Sprintf("%d of %d", stats.GoalsMet, stats.Scenarios)},
			{"Mean final balance", cli.FormatMoney(stats.MeanFinalBalance)},
			{"Best", fmt.Sprintf("%s (%s)", stats.Best, cli.FormatMoney(stats.BestFinalBalance))},
			{"Furthest from goal", fmt.Sprintf("%s (%s)", stats.Worst, cli.FormatSignedMoney(stats.WorstGoalGap))},
		}))
		fmt.Println()
	}

	for _, sr := range br.Results {
		if sr.Err != nil {
			fmt.Fprintf(os.Stderr, "  Skipped %s: %v\n", sr.Scenario.Name, sr.Err)
		}
	}
	return nil
}
