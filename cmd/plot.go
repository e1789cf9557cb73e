package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/visualize"
)

var (
	plotKind   string
	plotX      string
	plotY      string
	plotHue    string
	plotTitle  string
	plotXLabel string
	plotYLabel string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render one chart (line, bar, hist or scatter) to PNG",
	Example: `  eda plot --kind scatter --x "sepal length (cm)" --y "sepal width (cm)" --hue species
  eda plot --kind hist --x "petal length (cm)" --out-dir ./charts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(cmd, false)
		if err != nil || ds == nil {
			return err
		}
		req := visualize.Request{
			Kind:   visualize.ParseKind(plotKind),
			X:      plotX,
			Y:      plotY,
			Hue:    plotHue,
			Title:  plotTitle,
			XLabel: plotXLabel,
			YLabel: plotYLabel,
		}
		p := newPlotter()
		path, err := p.Plot(ds, req)
		if err != nil {
			reportFailure(cmd, "plot", err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote chart to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	f := plotCmd.Flags()
	f.StringVarP(&plotKind, "kind", "k", "", "plot type: line, bar, hist or scatter")
	f.StringVarP(&plotX, "x", "x", "", "x column (\"index\" for row position)")
	f.StringVarP(&plotY, "y", "y", "", "y column (not used by hist)")
	f.StringVar(&plotHue, "hue", "", "column that colors scatter points")
	f.StringVar(&plotTitle, "title", "", "chart title (derived from the columns if empty)")
	f.StringVar(&plotXLabel, "xlabel", "", "x axis label")
	f.StringVar(&plotYLabel, "ylabel", "", "y axis label")
	_ = plotCmd.MarkFlagRequired("kind")
	_ = plotCmd.MarkFlagRequired("x")
}
