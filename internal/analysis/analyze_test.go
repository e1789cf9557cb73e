package analysis_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/loader"
	"github.com/KaramelBytes/eda-cli/internal/logging"
)

func iris(t *testing.T) *dataset.Dataset {
	t.Helper()
	opt := loader.DefaultOptions()
	opt.Verbose = false
	ds, err := loader.Load("iris", "", opt)
	require.NoError(t, err)
	return ds
}

func TestAnalyzeIrisGroupedMeans(t *testing.T) {
	rep, err := analysis.Analyze(iris(t), "species", "sepal length (cm)", analysis.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, rep.Groups, 3)
	want := []struct {
		key  string
		mean float64
	}{
		{"setosa", 5.006},
		{"versicolor", 5.936},
		{"virginica", 6.588},
	}
	for i, w := range want {
		assert.Equal(t, w.key, rep.Groups[i].Key)
		assert.Equal(t, 50, rep.Groups[i].Size)
		assert.InDelta(t, w.mean, rep.Groups[i].Mean, 1e-9)
	}

	s := rep.Stats
	assert.Equal(t, 150, s.Count)
	assert.InDelta(t, 5.843333, s.Mean, 1e-6)
	assert.InDelta(t, 0.828066, s.Std, 1e-6)
	assert.Equal(t, 4.3, s.Min)
	assert.InDelta(t, 5.1, s.Q1, 1e-9)
	assert.InDelta(t, 5.8, s.Median, 1e-9)
	assert.InDelta(t, 6.4, s.Q3, 1e-9)
	assert.Equal(t, 7.9, s.Max)

	assert.Equal(t, []analysis.CategoryCount{
		{Value: "setosa", Count: 50},
		{Value: "versicolor", Count: 50},
		{Value: "virginica", Count: 50},
	}, rep.Counts)
	assert.Nil(t, rep.DateCorr)
	require.NotNil(t, rep.Outliers)
	assert.Equal(t, 3.5, rep.Outliers.Threshold)
}

func TestAnalyzeGroupedMeansMatchArithmeticMeans(t *testing.T) {
	ds, err := dataset.FromRecords("x", []string{"g", "v"}, [][]string{
		{"b", "4"}, {"a", "1"}, {"b", "6"}, {"c", "10"}, {"a", "2"}, {"a", "6"},
	})
	require.NoError(t, err)

	rep, err := analysis.Analyze(ds, "g", "v", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []analysis.GroupMean{
		{Key: "b", Size: 2, Mean: 5},
		{Key: "a", Size: 3, Mean: 3},
		{Key: "c", Size: 1, Mean: 10},
	}, rep.Groups)
	assert.Equal(t, []analysis.CategoryCount{
		{Value: "a", Count: 3},
		{Value: "b", Count: 2},
		{Value: "c", Count: 1},
	}, rep.Counts)
	assert.Nil(t, rep.Outliers, "too few values")
}

func TestAnalyzeInvalidColumns(t *testing.T) {
	ds := iris(t)
	cases := []struct {
		name, cat, num string
	}{
		{"unknown categorical", "color", "sepal length (cm)"},
		{"unknown numerical", "species", "stem length"},
		{"categorical as numerical", "species", "species"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			opt := analysis.DefaultOptions()
			opt.Log = logging.New("info", &buf)

			rep, err := analysis.Analyze(ds, c.cat, c.num, opt)
			assert.Nil(t, rep)
			assert.Equal(t, dataset.InvalidSelector, dataset.KindOf(err))
			assert.Contains(t, buf.String(), "analysis failed")
		})
	}
}

func TestAnalyzeDateCorrelation(t *testing.T) {
	ds, err := dataset.FromRecords("sales.csv", []string{"Date", "region", "units"}, [][]string{
		{"2024-01-01", "north", "10"},
		{"2024-01-02", "south", "20"},
		{"2024-01-03", "north", "30"},
		{"2024-01-05", "south", "50"},
	})
	require.NoError(t, err)

	rep, err := analysis.Analyze(ds, "region", "units", analysis.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, rep.DateCorr)
	assert.InDelta(t, 1.0, rep.DateCorr.R, 1e-6)
	assert.Equal(t, 4, rep.DateCorr.Pairs)
	assert.Contains(t, rep.Text(), "--- Correlation between units and Date ---")
}

func TestAnalyzeDateCorrelationSkipped(t *testing.T) {
	cases := []struct {
		name    string
		records [][]string
	}{
		{"categorical date", [][]string{{"soon", "a", "1"}, {"later", "b", "2"}}},
		{"single pair", [][]string{{"2024-01-01", "a", "1"}}},
		{"constant values", [][]string{{"2024-01-01", "a", "3"}, {"2024-01-02", "b", "3"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ds, err := dataset.FromRecords("x", []string{"Date", "g", "v"}, c.records)
			require.NoError(t, err)
			rep, err := analysis.Analyze(ds, "g", "v", analysis.DefaultOptions())
			require.NoError(t, err)
			assert.Nil(t, rep.DateCorr)
		})
	}
}

func TestAnalyzeOutliers(t *testing.T) {
	records := [][]string{}
	for _, v := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "1000"} {
		records = append(records, []string{"g", v})
	}
	ds, err := dataset.FromRecords("x", []string{"k", "v"}, records)
	require.NoError(t, err)

	rep, err := analysis.Analyze(ds, "k", "v", analysis.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, rep.Outliers)
	assert.Equal(t, 1, rep.Outliers.Count)
	assert.Greater(t, rep.Outliers.MaxAbsZ, 100.0)
	assert.Contains(t, rep.Text(), "outliers: 1 above |z|>3.5")
}

func TestReportText(t *testing.T) {
	rep, err := analysis.Analyze(iris(t), "species", "petal length (cm)", analysis.DefaultOptions())
	require.NoError(t, err)

	text := rep.Text()
	for _, want := range []string{
		"--- Basic Statistics for petal length (cm) ---",
		"count  150",
		"--- Mean petal length (cm) by species ---",
		"setosa     1.462 (n=50)",
		"versicolor 4.26 (n=50)",
		"virginica  5.552 (n=50)",
		"--- Value Counts for species ---",
	} {
		assert.Contains(t, text, want)
	}
}

func TestDescribe(t *testing.T) {
	s := analysis.Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2.5, s.Mean)
	assert.InDelta(t, 1.290994, s.Std, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 1.75, s.Q1)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 3.25, s.Q3)
	assert.Equal(t, 4.0, s.Max)

	one := analysis.Describe([]float64{7})
	assert.Equal(t, 7.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))

	none := analysis.Describe(nil)
	assert.Equal(t, 0, none.Count)
	assert.True(t, math.IsNaN(none.Mean))
}
