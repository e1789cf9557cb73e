package dataset_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

func TestFromRecordsInfersKinds(t *testing.T) {
	ds, err := dataset.FromRecords("t.csv",
		[]string{"Date", "plot", "yield"},
		[][]string{
			{"2024-08-10", "A1", "12.5"},
			{"2024-08-12", "B3", "NA"},
			{"2024-08-15", "A1", "10.2"},
		})
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Date", "plot", "yield"}, ds.ColumnNames())
	kinds := map[string]dataset.Kind{}
	for _, c := range ds.Columns() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, dataset.Datetime, kinds["Date"])
	assert.Equal(t, dataset.Categorical, kinds["plot"])
	assert.Equal(t, dataset.Numeric, kinds["yield"])
	assert.Equal(t, []int{0, 0, 1}, ds.MissingCounts())
	assert.True(t, ds.HasMissing())
}

func TestFromRecordsRejectsBadShape(t *testing.T) {
	cases := []struct {
		name    string
		header  []string
		records [][]string
	}{
		{"empty header", nil, nil},
		{"blank column name", []string{"a", " "}, nil},
		{"duplicate column", []string{"a", "a"}, nil},
		{"ragged row", []string{"a", "b"}, [][]string{{"1", "2"}, {"3"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ds, err := dataset.FromRecords("x", c.header, c.records)
			assert.Nil(t, ds)
			assert.Equal(t, dataset.MalformedInput, dataset.KindOf(err))
		})
	}
}

func TestDropMissingLeavesOriginalIntact(t *testing.T) {
	ds, err := dataset.FromRecords("x",
		[]string{"k", "v"},
		[][]string{{"a", "1"}, {"", "2"}, {"b", "NaN"}, {"c", "4"}})
	require.NoError(t, err)

	clean := ds.DropMissing()
	assert.Equal(t, 2, clean.Len())
	assert.False(t, clean.HasMissing())
	assert.Equal(t, 4, ds.Len(), "source dataset must not change")
	assert.Equal(t, []int{1, 1}, ds.MissingCounts())

	vals, err := clean.Floats("v")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, vals)
}

func TestFloatsRejectsCategorical(t *testing.T) {
	ds, err := dataset.FromRecords("x", []string{"k"}, [][]string{{"a"}})
	require.NoError(t, err)

	_, err = ds.Floats("k")
	assert.Equal(t, dataset.InvalidSelector, dataset.KindOf(err))
	_, err = ds.Floats("nope")
	assert.Equal(t, dataset.InvalidSelector, dataset.KindOf(err))
}

func TestHeadAndRecords(t *testing.T) {
	ds, err := dataset.FromRecords("x", []string{"n"}, [][]string{{"1"}, {"2"}, {"3"}})
	require.NoError(t, err)

	h := ds.Head(2)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, [][]string{{"n"}, {"1"}, {"2"}}, h.Records())
	assert.Equal(t, 3, ds.Head(10).Len())
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "NA", "na", "N/A", "NaN", "null", "<nil>"} {
		assert.True(t, dataset.IsMissing(s), "%q", s)
	}
	for _, s := range []string{"0", "none", "setosa"} {
		assert.False(t, dataset.IsMissing(s), "%q", s)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, dataset.ErrorKind(""), dataset.KindOf(nil))
	assert.Equal(t, dataset.Unexpected, dataset.KindOf(errors.New("boom")))

	wrapped := fmt.Errorf("load: %w", dataset.Errorf(dataset.NotFound, "open", "missing %s", "x.csv"))
	assert.Equal(t, dataset.NotFound, dataset.KindOf(wrapped))
	assert.Contains(t, wrapped.Error(), "not_found")
}
