package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/diagnose"
	"github.com/KaramelBytes/eda-cli/internal/logging"
)

// Options controls how a dataset is read and how loudly it is reported.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet; empty means the first sheet.
	SheetName string
	// Verbose writes head/info/describe/missing-value diagnostics to Out.
	Verbose bool
	// SampleRows is the number of preview rows in diagnostics.
	SampleRows int
	Out        io.Writer
	Log        logrus.FieldLogger
}

// DefaultOptions keeps diagnostics on, matching the interactive default.
func DefaultOptions() Options {
	return Options{
		Verbose:    true,
		SampleRows: 5,
		Out:        os.Stdout,
	}
}

// Source produces a raw (uncleaned) dataset.
type Source interface {
	Name() string
	Load(path string, opt Options) (*dataset.Dataset, error)
}

var registry = map[string]Source{}

// Register adds a source under its name, replacing any previous one.
func Register(s Source) {
	registry[strings.ToLower(s.Name())] = s
}

// Sources lists the registered source names.
func Sources() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(irisSource{})
	Register(csvSource{})
	Register(xlsxSource{})
}

// Load reads the selected source, prints diagnostics and drops every row
// with a missing value. On failure it logs the error and returns it with a
// nil dataset; the error is always a *dataset.Error.
func Load(source, path string, opt Options) (*dataset.Dataset, error) {
	log := logging.OrDiscard(opt.Log).WithFields(logrus.Fields{"stage": "load", "source": source})
	raw, err := loadRaw(source, path, opt)
	if err != nil {
		log.WithField("kind", dataset.KindOf(err)).Errorf("load failed: %v", err)
		return nil, err
	}
	out := opt.Out
	if out == nil {
		out = io.Discard
	}
	if opt.Verbose {
		if err := diagnose.Explore(out, raw, opt.SampleRows); err != nil {
			log.Warnf("diagnostics: %v", err)
		}
	}
	clean := raw.DropMissing()
	if opt.Verbose {
		if err := diagnose.Missing(out, "Missing Values (After Cleaning)", clean); err != nil {
			log.Warnf("diagnostics: %v", err)
		}
	}
	log.WithFields(logrus.Fields{
		"rows":    clean.Len(),
		"dropped": raw.Len() - clean.Len(),
		"columns": len(clean.Columns()),
	}).Info("dataset loaded")
	return clean, nil
}

func loadRaw(source, path string, opt Options) (*dataset.Dataset, error) {
	src, ok := registry[strings.ToLower(strings.TrimSpace(source))]
	if !ok {
		return nil, dataset.Errorf(dataset.InvalidSelector, "select source",
			"invalid dataset choice %q: choose one of %s", source, strings.Join(Sources(), ", "))
	}
	ds, err := src.Load(path, opt)
	if err != nil {
		var de *dataset.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &dataset.Error{Kind: dataset.Unexpected, Op: "load " + src.Name(), Err: err}
	}
	return ds, nil
}

// checkPath validates a file-backed source path.
func checkPath(kind, path string) error {
	if strings.TrimSpace(path) == "" {
		return dataset.Errorf(dataset.InvalidSelector, "load "+kind, "file path must be provided for %s dataset", kind)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &dataset.Error{Kind: dataset.NotFound, Op: "load " + kind, Err: fmt.Errorf("file not found at %s", path)}
		}
		return &dataset.Error{Kind: dataset.Unexpected, Op: "load " + kind, Err: fmt.Errorf("stat %s: %w", path, err)}
	}
	if info.IsDir() {
		return dataset.Errorf(dataset.MalformedInput, "load "+kind, "%s is a directory", path)
	}
	return nil
}

// padRecords extends short records to width with empty (missing) cells and
// rejects records that are longer than the header.
func padRecords(records [][]string, width int) ([][]string, error) {
	for i, rec := range records {
		switch {
		case len(rec) > width:
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), width)
		case len(rec) < width:
			tmp := make([]string, width)
			copy(tmp, rec)
			records[i] = tmp
		}
	}
	return records, nil
}
