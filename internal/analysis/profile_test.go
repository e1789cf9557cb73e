package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

func TestBuildProfileIris(t *testing.T) {
	p := analysis.BuildProfile(iris(t), analysis.DefaultOptions())

	assert.Equal(t, 150, p.Rows)
	require.Len(t, p.Cols, 5)
	assert.Len(t, p.Samples, 5)

	species := p.Cols[4]
	assert.Equal(t, dataset.Categorical, species.Kind)
	assert.Equal(t, 3, species.Unique)
	assert.Equal(t, "setosa", species.TopValues[0].Value)

	sl := p.Cols[0]
	assert.Equal(t, dataset.Numeric, sl.Kind)
	assert.Equal(t, 4.3, sl.Min)
	assert.Equal(t, 7.9, sl.Max)
	assert.InDelta(t, 5.843333, sl.Mean, 1e-6)

	require.NotNil(t, p.Corr)
	assert.Len(t, p.Corr.Columns, 4)
	top := p.Corr.TopPairs(1)
	require.Len(t, top, 1)
	assert.Equal(t, "petal length (cm)", top[0].A)
	assert.Equal(t, "petal width (cm)", top[0].B)
	assert.InDelta(t, 0.9629, top[0].R, 1e-3)
	for i := range p.Corr.Columns {
		assert.Equal(t, 1.0, p.Corr.Values[i][i])
	}
}

func TestProfileMarkdown(t *testing.T) {
	opt := analysis.DefaultOptions()
	opt.SampleRows = 2
	md := analysis.BuildProfile(iris(t), opt).Markdown()

	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Rows: 150",
		"Columns: 5",
		"[SCHEMA]",
		"- species: categorical (non-null 150, missing 0.0%): top setosa(50), versicolor(50), virginica(50)",
		"- sepal length (cm): numeric",
		"[CORRELATIONS]",
		"- petal length (cm) ~ petal width (cm): r=0.963",
		"[HEAD AND SAMPLE ROWS]",
		"| 5.1 | 3.5 | 1.4 | 0.2 | setosa |",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "[NOTES]")
}

func TestProfileMixedColumns(t *testing.T) {
	ds, err := dataset.FromRecords("log.csv", []string{"Date", "note", "v"}, [][]string{
		{"2024-03-02", "a|b", "1"},
		{"2024-03-01", "", "2"},
		{"2024-03-09", "c", ""},
	})
	require.NoError(t, err)

	opt := analysis.DefaultOptions()
	p := analysis.BuildProfile(ds, opt)
	assert.Nil(t, p.Corr, "one numeric column")

	date := p.Cols[0]
	assert.Equal(t, dataset.Datetime, date.Kind)
	assert.Equal(t, "2024-03-01", date.First)
	assert.Equal(t, "2024-03-09", date.Last)

	note := p.Cols[1]
	assert.Equal(t, 1, note.Missing)
	assert.Equal(t, 2, note.NonNull)

	md := p.Markdown()
	assert.Contains(t, md, "- Date: datetime (non-null 3, missing 0.0%): 2024-03-01 to 2024-03-09")
	assert.Contains(t, md, "a/b(1)")
	assert.Contains(t, md, "missing 33.3%")
}

func TestProfileEmptyDataset(t *testing.T) {
	ds, err := dataset.FromRecords("empty.csv", []string{"a", "b"}, nil)
	require.NoError(t, err)

	p := analysis.BuildProfile(ds, analysis.DefaultOptions())
	assert.Empty(t, p.Samples)
	assert.Contains(t, p.Markdown(), "[NOTES]\n- dataset has no rows")
}
