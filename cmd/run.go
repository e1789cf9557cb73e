package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/pipeline"
)

var runPlanPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run load, analysis and plotting end to end",
	Long: `run loads the configured source and, if that succeeds, runs every analysis
and plot step. The built-in iris source follows the walkthrough plan; other
sources get a plan derived from their column types; --plan replaces either
with a YAML file of analyses, plots and findings. Step failures are reported
and never stop the remaining steps.`,
	Example: `  eda run
  eda run --file plots.csv --plan plan.yaml --out-dir ./charts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := loaderOptions(cmd, cfg.Verbose)
		if err != nil {
			return err
		}
		r := &pipeline.Runner{
			Loader:   lopt,
			Analysis: analysisOptions(),
			Plotter:  newPlotter(),
			Out:      cmd.OutOrStdout(),
			Log:      log,
		}
		if runPlanPath != "" {
			plan, err := pipeline.LoadPlan(runPlanPath)
			if err != nil {
				log.WithField("kind", dataset.KindOf(err)).Errorf("plan failed: %v", err)
				reportFailure(cmd, "plan", err)
				return nil
			}
			r.Plan = plan
		}
		res := r.Run(cfg.Source, cfg.File)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		for _, c := range res.Charts {
			fmt.Fprintf(out, "✓ Wrote chart to %s\n", c)
		}
		for _, s := range res.Failures() {
			fmt.Fprintf(out, "⚠ %s failed (%s): %s\n", s.Step, s.Kind, s.Error)
		}
		if res.OutDir != "" {
			fmt.Fprintf(out, "✓ Run %s summary: %s\n", res.RunID, res.OutDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runPlanPath, "plan", "", "YAML plan file (analyses, plots, findings)")
}
