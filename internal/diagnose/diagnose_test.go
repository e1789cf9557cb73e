package diagnose_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/diagnose"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords("plots.csv",
		[]string{"plot", "yield"},
		[][]string{{"A1", "12.5"}, {"B3", ""}, {"A1", "10.2"}, {"C2", "9.9"}})
	require.NoError(t, err)
	return ds
}

func TestExploreWritesAllSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diagnose.Explore(&buf, sample(t), 2))

	out := buf.String()
	for _, want := range []string{
		"--- First 2 Rows ---",
		"--- Data Information ---",
		"plots.csv: 4 entries, 2 columns",
		"--- Summary Statistics ---",
		"--- Missing Values (Before Cleaning) ---",
		"yield",
		"plot",
	} {
		assert.Contains(t, out, want)
	}
}

func TestExploreEmptyDataset(t *testing.T) {
	ds, err := dataset.FromRecords("empty.csv", []string{"a"}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diagnose.Explore(&buf, ds, 5))
	assert.Contains(t, buf.String(), "empty.csv: no rows")
	assert.NotContains(t, buf.String(), "Summary Statistics")
}

func TestFrameMarksMissingAsNaN(t *testing.T) {
	df := diagnose.Frame(sample(t))
	require.NoError(t, df.Err)
	assert.Equal(t, 4, df.Nrow())
	assert.Equal(t, 2, df.Ncol())
	assert.Equal(t, 1, countNaN(df.Col("yield").Float()))
}

func TestInfoCountsNonNull(t *testing.T) {
	df := diagnose.Info(sample(t))
	require.NoError(t, df.Err)
	nonNull, err := df.Col("non-null").Int()
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3}, nonNull)
	assert.Equal(t, []string{"categorical", "numeric"}, df.Col("kind").Records())
}

func countNaN(xs []float64) int {
	n := 0
	for _, x := range xs {
		if x != x {
			n++
		}
	}
	return n
}
