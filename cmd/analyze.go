package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
)

var (
	anaCategorical string
	anaNumerical   string
	anaOutlierThr  float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print statistics, grouped means and value counts for two columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd, false)
		if err != nil || ds == nil {
			return err
		}
		opt := analysisOptions()
		if cmd.Flags().Changed("outlier-threshold") {
			if anaOutlierThr <= 0 {
				return fmt.Errorf("invalid --outlier-threshold: %v", anaOutlierThr)
			}
			opt.OutlierThreshold = anaOutlierThr
		}
		rep, err := analysis.Analyze(ds, anaCategorical, anaNumerical, opt)
		if err != nil {
			reportFailure(cmd, "analysis", err)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), rep.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaCategorical, "cat", "", "categorical column to group by")
	analyzeCmd.Flags().StringVar(&anaNumerical, "num", "", "numerical column to describe")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	_ = analyzeCmd.MarkFlagRequired("cat")
	_ = analyzeCmd.MarkFlagRequired("num")
}
