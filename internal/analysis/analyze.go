// Package analysis computes descriptive statistics, grouped means, value
// counts and correlations over a cleaned dataset.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/logging"
)

// DateColumn is the column correlated against the numerical column when present.
const DateColumn = "Date"

// Options controls analysis behavior.
type Options struct {
	// OutlierThreshold is the robust |z| cutoff; 0 means 3.5.
	OutlierThreshold float64
	// SampleRows is the number of example rows included in a Profile.
	SampleRows int
	// Correlations computes the Pearson matrix in a Profile.
	Correlations bool
	// MaxTopValues caps the categorical top list in a Profile.
	MaxTopValues int
	Log          logrus.FieldLogger
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		OutlierThreshold: 3.5,
		SampleRows:       5,
		Correlations:     true,
		MaxTopValues:     8,
	}
}

// GroupMean is the mean of the numerical column within one category.
type GroupMean struct {
	Key  string
	Size int
	Mean float64
}

// CategoryCount is the frequency of one categorical value.
type CategoryCount struct {
	Value string
	Count int
}

// DateCorrelation is the Pearson r between the Date column and the
// numerical column.
type DateCorrelation struct {
	Column string
	R      float64
	Pairs  int
}

// Report is the result of Analyze.
type Report struct {
	Dataset     string
	Categorical string
	Numerical   string
	Stats       Summary
	// Groups are in the order each category first appears.
	Groups []GroupMean
	// Counts are sorted by count descending, then value ascending.
	Counts   []CategoryCount
	DateCorr *DateCorrelation
	Outliers *Outliers
}

// Analyze summarizes the numerical column overall and per value of the
// categorical column. Invalid column names produce an InvalidSelector error,
// which is also logged.
func Analyze(ds *dataset.Dataset, categorical, numerical string, opt Options) (*Report, error) {
	log := logging.OrDiscard(opt.Log).WithFields(logrus.Fields{
		"stage":       "analyze",
		"categorical": categorical,
		"numerical":   numerical,
	})
	rep, err := analyze(ds, categorical, numerical, opt, log)
	if err != nil {
		log.WithField("kind", dataset.KindOf(err)).Errorf("analysis failed: %v", err)
		return nil, err
	}
	log.WithField("groups", len(rep.Groups)).Info("analysis complete")
	return rep, nil
}

func analyze(ds *dataset.Dataset, categorical, numerical string, opt Options, log logrus.FieldLogger) (*Report, error) {
	const op = "analyze"
	if ds == nil {
		return nil, dataset.Errorf(dataset.InvalidRequest, op, "no dataset")
	}
	catIdx := ds.Index(categorical)
	if catIdx < 0 {
		return nil, &dataset.Error{Kind: dataset.InvalidSelector, Op: op, Err: fmt.Errorf("categorical column %q not found", categorical)}
	}
	numCol, ok := ds.Column(numerical)
	if !ok {
		return nil, &dataset.Error{Kind: dataset.InvalidSelector, Op: op, Err: fmt.Errorf("numerical column %q not found", numerical)}
	}
	if numCol.Kind != dataset.Numeric {
		return nil, dataset.Errorf(dataset.InvalidSelector, op, "column %q is %s, not numeric", numerical, numCol.Kind)
	}
	numIdx := ds.Index(numerical)

	type gAcc struct {
		size int
		sum  float64
	}
	var order []string
	groups := map[string]*gAcc{}
	counts := map[string]int{}
	vals := make([]float64, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		key := row[catIdx]
		if !key.Missing {
			counts[key.Raw]++
		}
		x, ok := row[numIdx].Float()
		if !ok {
			continue
		}
		vals = append(vals, x)
		if key.Missing {
			continue
		}
		ga := groups[key.Raw]
		if ga == nil {
			ga = &gAcc{}
			groups[key.Raw] = ga
			order = append(order, key.Raw)
		}
		ga.size++
		ga.sum += x
	}

	rep := &Report{
		Dataset:     ds.Name(),
		Categorical: categorical,
		Numerical:   numerical,
		Stats:       Describe(vals),
		Groups:      make([]GroupMean, 0, len(order)),
		Counts:      sortedCounts(counts),
		Outliers:    robustOutliers(vals, opt.OutlierThreshold),
	}
	for _, k := range order {
		ga := groups[k]
		rep.Groups = append(rep.Groups, GroupMean{Key: k, Size: ga.size, Mean: ga.sum / float64(ga.size)})
	}
	if numerical != DateColumn {
		rep.DateCorr = dateCorrelation(ds, numIdx, log)
	}
	return rep, nil
}

func dateCorrelation(ds *dataset.Dataset, numIdx int, log logrus.FieldLogger) *DateCorrelation {
	c, ok := ds.Column(DateColumn)
	if !ok {
		return nil
	}
	if c.Kind == dataset.Categorical {
		log.Debugf("skip date correlation: %s column is categorical", DateColumn)
		return nil
	}
	dIdx := ds.Index(DateColumn)
	var pa pairAcc
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		d, ok1 := row[dIdx].Float()
		x, ok2 := row[numIdx].Float()
		if ok1 && ok2 {
			pa.add(d, x)
		}
	}
	r, ok := pa.r()
	if !ok {
		log.Debugf("skip date correlation: not computable over %d pairs", int(pa.n))
		return nil
	}
	return &DateCorrelation{Column: DateColumn, R: r, Pairs: int(pa.n)}
}

func sortedCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// Text renders the report for the console.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- Basic Statistics for %s ---\n", r.Numerical)
	s := r.Stats
	for _, kv := range []struct {
		k string
		v float64
	}{
		{"count", float64(s.Count)},
		{"mean", s.Mean},
		{"std", s.Std},
		{"min", s.Min},
		{"25%", s.Q1},
		{"50%", s.Median},
		{"75%", s.Q3},
		{"max", s.Max},
	} {
		fmt.Fprintf(&b, "%-6s %s\n", kv.k, formatFloat(kv.v))
	}
	if r.Outliers != nil {
		fmt.Fprintf(&b, "outliers: %d above |z|>%.1f", r.Outliers.Count, r.Outliers.Threshold)
		if r.Outliers.MaxAbsZ > 0 {
			fmt.Fprintf(&b, " (max |z|≈%.2f)", r.Outliers.MaxAbsZ)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n--- Mean %s by %s ---\n", r.Numerical, r.Categorical)
	width := len(r.Categorical)
	for _, g := range r.Groups {
		width = max(width, len(g.Key))
	}
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "%-*s %s (n=%d)\n", width, safeVal(g.Key), formatFloat(g.Mean), g.Size)
	}

	if r.DateCorr != nil {
		fmt.Fprintf(&b, "\n--- Correlation between %s and %s ---\n", r.Numerical, r.DateCorr.Column)
		fmt.Fprintf(&b, "r=%.4f (n=%d)\n", r.DateCorr.R, r.DateCorr.Pairs)
	}

	fmt.Fprintf(&b, "\n--- Value Counts for %s ---\n", r.Categorical)
	width = len(r.Categorical)
	for _, c := range r.Counts {
		width = max(width, len(c.Value))
	}
	for _, c := range r.Counts {
		fmt.Fprintf(&b, "%-*s %d\n", width, safeVal(c.Value), c.Count)
	}
	return b.String()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}
