package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

type csvSource struct{}

func (csvSource) Name() string { return "csv" }

func (csvSource) Load(path string, opt Options) (*dataset.Dataset, error) {
	if err := checkPath("csv", path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dataset.Errorf(dataset.MalformedInput, "load csv", "%s is empty", filepath.Base(path))
		}
		return nil, &dataset.Error{Kind: dataset.MalformedInput, Op: "load csv", Err: fmt.Errorf("read header: %w", err)}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &dataset.Error{Kind: dataset.MalformedInput, Op: "load csv", Err: fmt.Errorf("read row %d: %w", len(records)+1, err)}
		}
		records = append(records, rec)
	}
	records, err = padRecords(records, len(header))
	if err != nil {
		return nil, &dataset.Error{Kind: dataset.MalformedInput, Op: "load csv", Err: err}
	}
	return dataset.FromRecords(filepath.Base(path), header, records)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
