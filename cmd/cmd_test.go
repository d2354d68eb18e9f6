package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/wealthpath/wealthpath/internal/config"
	"github.com/wealthpath/wealthpath/internal/store"
	"github.com/wealthpath/wealthpath/internal/validate"
)

func testCommand() *cobra.Command {
	c := &cobra.Command{Use: "t"}
	addInputFlags(c)
	addLeverFlag(c)
	c.Flags().StringVar(&flagServeAddr, "addr", "", "")
	return c
}

func TestResolveProfileAndLever(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Lever.ReductionPercent = 15

	c := testCommand()
	require.NoError(t, c.Flags().Parse([]string{"--goal", "5000"}))

	p := resolveProfile(c, cfg)
	require.Equal(t, 10000.0, p.CurrentSavings)
	require.Equal(t, 5000.0, p.Goal)
	require.Equal(t, 15.0, resolveLever(c, cfg).ReductionPercent)

	c = testCommand()
	require.NoError(t, c.Flags().Parse([]string{"--savings", "0", "--lever", "0"}))
	p = resolveProfile(c, cfg)
	require.Equal(t, 0.0, p.CurrentSavings)
	require.Equal(t, 0.0, resolveLever(c, cfg).ReductionPercent)
}

func TestServerConfigLayering(t *testing.T) {
	t.Setenv("WEALTHPATH_MAX_BATCH", "7")
	flagDBPath, flagServeNoStore = "", false
	cfg := config.DefaultConfig()
	cfg.Store.Path = "/data/s.db"

	c := testCommand()
	require.NoError(t, c.Flags().Parse([]string{"--addr", "0.0.0.0:1"}))

	sc, err := serverConfig(c, cfg)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:1", sc.Addr)
	require.Equal(t, 7, sc.MaxBatch)
	require.Equal(t, "/data/s.db", sc.DBPath)
	require.Equal(t, 25000.0, sc.DefaultGoal)
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.pid")
	require.NoError(t, writePID(path, 4242))
	pid, err := readPID(path)
	require.NoError(t, err)
	require.Equal(t, 4242, pid)

	require.NoError(t, os.WriteFile(path, []byte("nope\n"), 0o600))
	_, err = readPID(path)
	require.Error(t, err)

	require.NoError(t, ensureServerNotRunning(filepath.Join(t.TempDir(), "missing.pid")))
}

func TestProjectAndScenarioCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WEALTHPATH_CONFIG", filepath.Join(dir, "none.toml"))

	summaryPath := filepath.Join(dir, "summary.json")
	require.NoError(t, os.WriteFile(summaryPath,
		[]byte(`{"burn_rate": -200, "categories": {"Dining": 600, "Rent": 1500}}`), 0o600))
	outPath := filepath.Join(dir, "out.json")
	dbPath := filepath.Join(dir, "s.db")

	rootCmd.SetArgs([]string{"project", "-q", "-f", summaryPath,
		"--savings", "10000", "--goal", "9000", "--lever", "50",
		"--export", "json", "--out", outPath})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, 16600.0, got["final_balance"])
	require.Equal(t, "Rent", got["top_category"])

	rootCmd.SetArgs([]string{"scenario", "save", "half-rent", "--db", dbPath, "-f", summaryPath, "--lever", "50"})
	require.NoError(t, rootCmd.Execute())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	sc, err := st.GetScenario("half-rent")
	require.NoError(t, err)
	require.Equal(t, 50.0, sc.Lever.ReductionPercent)
	require.Equal(t, 25000.0, sc.Profile.Goal)

	rootCmd.SetArgs([]string{"project", "-f", summaryPath, "--lever", "80"})
	require.Error(t, rootCmd.Execute())
}

func TestProjectRejectsOverflowBeforeExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WEALTHPATH_CONFIG", filepath.Join(dir, "none.toml"))

	summaryPath := filepath.Join(dir, "huge.json")
	require.NoError(t, os.WriteFile(summaryPath,
		[]byte(`{"burn_rate": 1e308, "categories": {"Rent": 1e308}}`), 0o600))
	outPath := filepath.Join(dir, "out.csv")

	rootCmd.SetArgs([]string{"project", "-q", "-f", summaryPath,
		"--savings", "1e308", "--goal", "0", "--lever", "50",
		"--export", "csv", "--out", outPath})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, validate.ErrMagnitude)

	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr))
}
