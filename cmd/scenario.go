package cmd

import (
	"fmt"
	"os"

	"github.com/wealthpath/wealthpath/internal/cli"
	"github.com/wealthpath/wealthpath/internal/input"
	"github.com/wealthpath/wealthpath/internal/projection"
	"github.com/wealthpath/wealthpath/internal/store"
	"github.com/wealthpath/wealthpath/internal/validate"

	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage saved what-if scenarios",
}

var scenarioSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a summary, profile and lever as a named scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioSave,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	Args:  cobra.NoArgs,
	RunE:  runScenarioList,
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Project a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioShow,
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <name|id>",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioDelete,
}

var scenarioImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Save every summary file under a directory as a scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioImport,
}

func init() {
	scenarioImportCmd.Flags().Float64Var(&flagSavings, "savings", 0, "Current savings (default from config)")
	scenarioImportCmd.Flags().Float64Var(&flagGoal, "goal", 0, "Savings goal (default from config)")
	addLeverFlag(scenarioImportCmd)

	addInputFlags(scenarioSaveCmd)
	addLeverFlag(scenarioSaveCmd)
	_ = scenarioSaveCmd.MarkFlagRequired("file")

	scenarioCmd.AddCommand(scenarioSaveCmd, scenarioImportCmd, scenarioListCmd, scenarioShowCmd, scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioSave(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	summary, err := input.LoadSummary(flagFile)
	if err != nil {
		return err
	}
	sc := store.Scenario{
		Name:    args[0],
		Summary: summary,
		Profile: resolveProfile(cmd, cfg),
		Lever:   resolveLever(cmd, cfg),
	}
	if err := validate.Inputs(sc.Summary, sc.Profile, sc.Lever); err != nil {
		return fmt.Errorf("invalid inputs:\n%w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	saved, err := st.SaveScenario(sc)
	if err != nil {
		return fmt.Errorf("saving scenario: %w", err)
	}
	fmt.Printf("  Saved scenario %q (%s)\n", saved.Name, saved.ID)
	return nil
}

func runScenarioList(_ *cobra.Command, _ []string) error {
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
		fmt.Println("\n  No saved scenarios.")
		fmt.Println("  Save one with: wealthpath scenario save <name> -f summary.json")
		return nil
	}

	rows := make([][]string, 0, len(scenarios))
	for _, sc := range scenarios {
		rows = append(rows, []string{
			sc.Name,
			cli.FormatSignedMoney(sc.Summary.BurnRate),
			cli.FormatMoney(sc.Profile.CurrentSavings),
			cli.FormatMoney(sc.Profile.Goal),
			cli.FormatPercent(sc.Lever.ReductionPercent),
			sc.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Scenarios (%d)", len(scenarios)),
		Headers: []string{"Name", "Burn/mo", "Savings", "Goal", "Lever", "Updated"},
		Rows:    rows,
	}))
	return nil
}

func runScenarioShow(_ *cobra.Command, args []string) error {
	st, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.GetScenario(args[0])
	if err != nil {
		return err
	}
	if err := validate.Inputs(sc.Summary, sc.Profile, sc.Lever); err != nil {
		return fmt.Errorf("scenario %q has invalid inputs:\n%w", sc.Name, err)
	}

	result := projection.Compute(sc.Summary, sc.Profile, sc.Lever)
	if err := validate.Result(result); err != nil {
		return fmt.Errorf("scenario %q has invalid inputs:\n%w", sc.Name, err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SCENARIO  " + sc.Name))
	fmt.Println()
	renderProjection(sc.Summary, sc.Profile, sc.Lever, result)
	return nil
}

func runScenarioDelete(_ *cobra.Command, args []string) error {
	st, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteScenario(args[0]); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Deleted scenario %s\n", args[0])
	}
	return nil
}

func runScenarioImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	files, err := input.ScanDir(args[0])
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Printf("\n  No summary files found in %s\n", args[0])
		return nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	profile := resolveProfile(cmd, cfg)
	lever := resolveLever(cmd, cfg)

	var saved, skipped int
	for _, f := range files {
		pr := input.ParseFile(f)
		if pr.Err == nil {
			pr.Err = validate.Inputs(pr.Summary, profile, lever)
		}
		if pr.Err != nil {
			skipped++
			fmt.Fprintf(os.Stderr, "  Skipped %s: %v\n", f.Path, pr.Err)
			continue
		}
		if _, err := st.SaveScenario(store.Scenario{
			Name:    f.Name,
			Summary: pr.Summary,
			Profile: profile,
			Lever:   lever,
		}); err != nil {
			return fmt.Errorf("saving %s: %w", f.Name, err)
		}
		saved++
	}

	fmt.Printf("  Imported %d scenarios (%d skipped)\n", saved, skipped)
	return nil
}
