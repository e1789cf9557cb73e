package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a dataset, print diagnostics and drop incomplete rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd, cfg.Verbose)
		if err != nil || ds == nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %s: %d rows, %d columns\n", ds.Name(), ds.Len(), len(ds.Columns()))
		for _, c := range ds.Columns() {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", c.Name, c.Kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
