package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. EDA_HIST_BINS.
const EnvPrefix = "EDA"

// Global configuration structure.
type Global struct {
	// Data source
	Source     string `mapstructure:"source" yaml:"source"`
	File       string `mapstructure:"file" yaml:"file"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SampleRows int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	Verbose    bool   `mapstructure:"verbose" yaml:"verbose"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Analysis
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Charts
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	HistBins    int    `mapstructure:"hist_bins" yaml:"hist_bins"`
}

var defaults = map[string]any{
	"source":            "iris",
	"file":              "",
	"delimiter":         "",
	"sheet_name":        "",
	"sample_rows":       5,
	"verbose":           true,
	"log_level":         "info",
	"outlier_threshold": 3.5,
	"output_dir":        "",
	"chart_width":       1024,
	"chart_height":      640,
	"hist_bins":         20,
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	out := make([]string, 0, len(defaults))
	for k := range defaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultPath returns ~/.eda/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".eda", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.eda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Defaults returns the built-in configuration, ignoring env and files.
func Defaults() *Global {
	var c Global
	_ = newViper().Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Global) Validate() error {
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	switch {
	case c.SampleRows < 0:
		return fmt.Errorf("invalid sample_rows: %d", c.SampleRows)
	case c.ChartWidth < 0 || c.ChartHeight < 0:
		return fmt.Errorf("invalid chart size: %dx%d", c.ChartWidth, c.ChartHeight)
	case c.HistBins < 0:
		return fmt.Errorf("invalid hist_bins: %d", c.HistBins)
	case c.OutlierThreshold < 0:
		return fmt.Errorf("invalid outlier_threshold: %v", c.OutlierThreshold)
	}
	return nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "source":
		c.Source = strings.ToLower(strings.TrimSpace(val))
	case "file":
		c.File = val
	case "delimiter":
		if _, err := ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "sheet_name":
		c.SheetName = val
	case "sample_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for sample_rows: %v", val)
		}
		c.SampleRows = i
	case "verbose":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for verbose: %w", err)
		}
		c.Verbose = b
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "outlier_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for outlier_threshold: %v", val)
		}
		c.OutlierThreshold = f
	case "output_dir":
		c.OutputDir = val
	case "chart_width", "chart_height", "hist_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "chart_width":
			c.ChartWidth = i
		case "chart_height":
			c.ChartHeight = i
		default:
			c.HistBins = i
		}
	default:
		return fmt.Errorf("unknown key: %s (use one of %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// ParseDelimiter maps a configured delimiter to a rune; empty means sniff.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',', ';', '|' or tab)", s)
	}
}
