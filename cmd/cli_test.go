package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state from one
// invocation does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execRoot executes the root command with args and returns stdout.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func tempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "plots.csv")
	require.NoError(t, os.WriteFile(p, []byte("plot,yield,rain\nA1,12.5,30\nB3,11,28\nA1,10.2,35\nC2,,20\n"), 0o644))
	return p
}

func TestCLI_LoadIris(t *testing.T) {
	tempHome(t)
	out, err := execRoot(t, "load", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Loaded iris: 150 rows, 5 columns")
	assert.Contains(t, out, "  - species (categorical)")
	assert.NotContains(t, out, "Missing Values", "quiet skips diagnostics")
}

func TestCLI_LoadVerboseDiagnostics(t *testing.T) {
	home := tempHome(t)
	out, err := execRoot(t, "load", "--file", writeCSV(t, home))
	require.NoError(t, err)
	assert.Contains(t, out, "Missing Values (After Cleaning)")
	assert.Contains(t, out, "✓ Loaded plots.csv: 3 rows, 3 columns")
}

func TestCLI_LoadFailureIsAbsorbed(t *testing.T) {
	home := tempHome(t)
	out, err := execRoot(t, "load", "--source", "parquet")
	require.NoError(t, err)
	assert.Contains(t, out, "⚠ load failed (invalid_selector)")

	out, err = execRoot(t, "load", "--file", filepath.Join(home, "nope.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "⚠ load failed (not_found)")
}

func TestCLI_Analyze(t *testing.T) {
	tempHome(t)
	out, err := execRoot(t, "analyze", "-q", "--cat", "species", "--num", "sepal length (cm)")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Basic Statistics for sepal length (cm) ---")
	assert.Contains(t, out, "--- Mean sepal length (cm) by species ---")
	assert.Contains(t, out, "--- Value Counts for species ---")

	out, err = execRoot(t, "analyze", "-q", "--cat", "color", "--num", "sepal length (cm)")
	require.NoError(t, err, "stage failures are absorbed")
	assert.Contains(t, out, "⚠ analysis failed (invalid_selector)")
}

func TestCLI_AnalyzeRequiresColumns(t *testing.T) {
	tempHome(t)
	_, err := execRoot(t, "analyze", "-q", "--cat", "species")
	assert.ErrorContains(t, err, "num")
}

func TestCLI_Plot(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, "charts")

	out, err := execRoot(t, "plot", "-q", "--out-dir", dir, "--kind", "histogram", "--x", "petal length (cm)")
	require.NoError(t, err)
	want := filepath.Join(dir, "hist_distribution-of-petal-length-cm.png")
	assert.Contains(t, out, "✓ Wrote chart to "+want)
	assert.FileExists(t, want)
}

func TestCLI_PlotInvalidRequestWritesNothing(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, "charts")

	out, err := execRoot(t, "plot", "-q", "--out-dir", dir, "--kind", "scatter", "--x", "sepal length (cm)")
	require.NoError(t, err)
	assert.Contains(t, out, "⚠ plot failed (invalid_request)")
	assert.NoDirExists(t, dir)
}

func TestCLI_Profile(t *testing.T) {
	home := tempHome(t)
	p := filepath.Join(home, "iris.md")

	out, err := execRoot(t, "profile", "-q", "-o", p)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote profile to "+p)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[DATASET SUMMARY]")
	assert.Contains(t, string(b), "[CORRELATIONS]")

	out, err = execRoot(t, "profile", "-q", "--correlations=false")
	require.NoError(t, err)
	assert.Contains(t, out, "[SCHEMA]")
	assert.NotContains(t, out, "[CORRELATIONS]")
}

func TestCLI_RunCSV(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, "out")

	out, err := execRoot(t, "run", "-q", "--file", writeCSV(t, home), "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "--- Mean yield by plot ---")
	assert.NotContains(t, out, "⚠")
	assert.FileExists(t, filepath.Join(dir, "summary.json"))
}

func TestCLI_RunIris(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, "out")

	out, err := execRoot(t, "run", "-q", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "--- Findings and Observations (iris) ---")
	assert.FileExists(t, filepath.Join(dir, "bar_average-petal-length-by-species.png"))
	assert.FileExists(t, filepath.Join(dir, "line_sepal-length-over-index.png"))
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := tempHome(t)

	_, err := execRoot(t, "config", "set", "hist_bins", "12")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, ".eda", "config.yaml"))

	out, err := execRoot(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "hist_bins: 12")
	assert.Contains(t, out, "source: iris")

	_, err = execRoot(t, "config", "set", "colour", "red")
	assert.ErrorContains(t, err, "unknown key")
}

func TestCLI_ConfigShowReflectsOverrides(t *testing.T) {
	tempHome(t)
	out, err := execRoot(t, "config", "show", "--file", "book.xlsx", "--sheet", "Data")
	require.NoError(t, err)
	assert.Contains(t, out, "source: xlsx")
	assert.Contains(t, out, "sheet_name: Data")
}

func TestSourceForFile(t *testing.T) {
	assert.Equal(t, "xlsx", sourceForFile("a/B.XLSX"))
	assert.Equal(t, "csv", sourceForFile("a.tsv"))
	assert.Equal(t, "csv", sourceForFile("a.csv"))
}

func TestCLI_RunWithPlanFile(t *testing.T) {
	home := tempHome(t)
	dir := filepath.Join(home, "out")
	plan := filepath.Join(home, "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte("plots:\n  - kind: line\n    x: index\n    y: petal length (cm)\n"), 0o644))

	out, err := execRoot(t, "run", "-q", "--out-dir", dir, "--plan", plan)
	require.NoError(t, err)
	assert.NotContains(t, out, "Findings")
	assert.FileExists(t, filepath.Join(dir, "line_petal-length-cm-over-index.png"))

	out, err = execRoot(t, "run", "-q", "--plan", filepath.Join(home, "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "⚠ plan failed (not_found)")
}
