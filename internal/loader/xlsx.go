package loader

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

type xlsxSource struct{}

func (xlsxSource) Name() string { return "xlsx" }

// Load reads the named sheet, or the first one, with its first row as header.
func (xlsxSource) Load(path string, opt Options) (*dataset.Dataset, error) {
	if err := checkPath("xlsx", path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &dataset.Error{Kind: dataset.MalformedInput, Op: "load xlsx", Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dataset.Errorf(dataset.MalformedInput, "load xlsx", "workbook %s has no sheets", filepath.Base(path))
	}
	sheet := sheets[0]
	if opt.SheetName != "" {
		found := false
		for _, s := range sheets {
			if s == opt.SheetName {
				found = true
				break
			}
		}
		if !found {
			return nil, dataset.Errorf(dataset.InvalidSelector, "load xlsx",
				"sheet %q not found in workbook %s; available sheets: %v", opt.SheetName, filepath.Base(path), sheets)
		}
		sheet = opt.SheetName
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &dataset.Error{Kind: dataset.MalformedInput, Op: "load xlsx", Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, dataset.Errorf(dataset.MalformedInput, "load xlsx", "sheet %s is empty", sheet)
	}
	records, err := padRecords(rows[1:], len(rows[0]))
	if err != nil {
		return nil, &dataset.Error{Kind: dataset.MalformedInput, Op: "load xlsx", Err: err}
	}
	return dataset.FromRecords(fmt.Sprintf("%s (sheet: %s)", filepath.Base(path), sheet), rows[0], records)
}
