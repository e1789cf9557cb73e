package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/eda-cli/internal/config"
	"github.com/KaramelBytes/eda-cli/internal/logging"
)

var (
	// Global flags (override config when set)
	cfgFile   string
	debug     bool
	quiet     bool
	outDir    string
	source    string
	file      string
	sheetName string
	delimiter string

	// Loaded configuration
	cfg *cfgpkg.Global
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "eda",
	Short: "eda: load, analyze and chart tabular datasets",
	Long: `eda is a CLI for exploratory data analysis. It loads a dataset (the built-in
iris table, a CSV/TSV file or an XLSX sheet), drops incomplete rows, prints
descriptive and grouped statistics and renders PNG charts.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.eda/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.BoolVarP(&quiet, "quiet", "q", false, "only log errors and skip load diagnostics")
	f.StringVar(&outDir, "out-dir", "", "directory for charts and reports (overrides config)")
	f.StringVarP(&source, "source", "s", "", "data source: iris, csv or xlsx (overrides config)")
	f.StringVarP(&file, "file", "f", "", "path to the CSV/TSV/XLSX file")
	f.StringVar(&sheetName, "sheet", "", "XLSX sheet name (default first sheet)")
	f.StringVar(&delimiter, "delimiter", "", "CSV delimiter: ',', ';', '|' or tab (default: sniff)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("out-dir") {
		cfg.OutputDir = outDir
	}
	if f.Changed("source") {
		cfg.Source = source
	}
	if f.Changed("file") {
		cfg.File = file
		if !f.Changed("source") {
			cfg.Source = sourceForFile(file)
		}
	}
	if f.Changed("sheet") {
		cfg.SheetName = sheetName
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = delimiter
	}
	switch {
	case debug:
		cfg.LogLevel = "debug"
	case quiet:
		cfg.LogLevel = "error"
		cfg.Verbose = false
	}
	log = logging.New(cfg.LogLevel, rootCmd.ErrOrStderr())
}
