package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/utils"
)

var (
	profOutputPath string
	profCorr       bool
	profTopValues  int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Summarize every column of a dataset as Markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd, false)
		if err != nil || ds == nil {
			return err
		}
		opt := analysisOptions()
		opt.Correlations = profCorr
		if profTopValues > 0 {
			opt.MaxTopValues = profTopValues
		}
		md := analysis.BuildProfile(ds, opt).Markdown()

		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	profileCmd.Flags().BoolVar(&profCorr, "correlations", true, "include Pearson correlations among numeric columns")
	profileCmd.Flags().IntVar(&profTopValues, "top-values", 8, "top values listed per categorical column")
}
