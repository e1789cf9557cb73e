package loader

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

//go:embed data/iris.csv
var irisCSV []byte

// IrisRows and IrisColumns describe the built-in dataset.
const (
	IrisRows    = 150
	IrisColumns = 5
)

type irisSource struct{}

func (irisSource) Name() string { return "iris" }

// Load ignores path; the iris table is compiled into the binary.
func (irisSource) Load(_ string, _ Options) (*dataset.Dataset, error) {
	r := csv.NewReader(bytes.NewReader(irisCSV))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read embedded iris: %w", err)
	}
	return dataset.FromRecords("iris", records[0], records[1:])
}
