package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/eda-cli/internal/config"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/loader"
	"github.com/KaramelBytes/eda-cli/internal/visualize"
)

// sourceForFile guesses the loader from the file extension.
func sourceForFile(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

func loaderOptions(cmd *cobra.Command, verbose bool) (loader.Options, error) {
	delim, err := cfgpkg.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return loader.Options{}, err
	}
	return loader.Options{
		Delimiter:  delim,
		SheetName:  cfg.SheetName,
		Verbose:    verbose,
		SampleRows: cfg.SampleRows,
		Out:        cmd.OutOrStdout(),
		Log:        log,
	}, nil
}

func analysisOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	if cfg.OutlierThreshold > 0 {
		opt.OutlierThreshold = cfg.OutlierThreshold
	}
	if cfg.SampleRows > 0 {
		opt.SampleRows = cfg.SampleRows
	}
	opt.Log = log
	return opt
}

func newPlotter() visualize.Plotter {
	return visualize.Plotter{
		OutDir: cfg.OutputDir,
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		Bins:   cfg.HistBins,
		Log:    log,
	}
}

// loadDataset loads the configured source. A stage failure is reported on
// the command output and returned as a nil dataset with a nil error; only
// option errors are returned.
func loadDataset(cmd *cobra.Command, verbose bool) (*dataset.Dataset, error) {
	opt, err := loaderOptions(cmd, verbose)
	if err != nil {
		return nil, err
	}
	ds, err := loader.Load(cfg.Source, cfg.File, opt)
	if err != nil {
		reportFailure(cmd, "load", err)
		return nil, nil
	}
	return ds, nil
}

func reportFailure(cmd *cobra.Command, stage string, err error) {
	fmt.Fprintf(cmd.OutOrStdout(), "⚠ %s failed (%s): %v\n", stage, dataset.KindOf(err), err)
}
