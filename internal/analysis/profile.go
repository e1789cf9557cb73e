package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/logging"
)

// Profile is a markdown-friendly overview of every column of a dataset.
type Profile struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Corr     *CorrMatrix
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    dataset.Kind
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers is nil when not computed.
	Outliers *Outliers
	// Categorical top values
	TopValues []CategoryCount
	// Datetime range
	First, Last string
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// BuildProfile summarizes every column of ds.
func BuildProfile(ds *dataset.Dataset, opt Options) *Profile {
	log := logging.OrDiscard(opt.Log).WithField("stage", "profile")
	p := &Profile{Name: ds.Name(), Rows: ds.Len()}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	topN := opt.MaxTopValues
	if topN <= 0 {
		topN = 8
	}
	p.Samples = ds.Head(sampleRows).Records()[1:]

	missing := ds.MissingCounts()
	var numCols []int
	for j, c := range ds.Columns() {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind, Missing: missing[j], NonNull: ds.Len() - missing[j]}
		vals, _ := ds.Values(c.Name)
		switch c.Kind {
		case dataset.Numeric:
			xs, _ := ds.Floats(c.Name)
			d := Describe(xs)
			s.Min, s.Max, s.Mean, s.Std = d.Min, d.Max, d.Mean, d.Std
			if math.IsNaN(s.Std) {
				s.Std = 0
			}
			s.Outliers = robustOutliers(xs, opt.OutlierThreshold)
			numCols = append(numCols, j)
		case dataset.Datetime:
			s.First, s.Last = timeRange(vals)
		default:
			counts := map[string]int{}
			for _, v := range vals {
				if !v.Missing {
					counts[v.Raw]++
				}
			}
			tops := sortedCounts(counts)
			s.Unique = len(tops)
			if len(tops) > topN {
				tops = tops[:topN]
			}
			s.TopValues = tops
		}
		p.Cols = append(p.Cols, s)
	}
	if ds.Len() == 0 {
		p.Warnings = append(p.Warnings, "dataset has no rows")
	}
	if opt.Correlations && len(numCols) >= 2 {
		p.Corr = correlationMatrix(ds, numCols)
	}
	log.WithField("columns", len(p.Cols)).Debug("profile built")
	return p
}

func timeRange(vals []dataset.Value) (first, last string) {
	var lo, hi *dataset.Value
	for i := range vals {
		v := &vals[i]
		if !v.IsTime {
			continue
		}
		if lo == nil || v.Time.Before(lo.Time) {
			lo = v
		}
		if hi == nil || v.Time.After(hi.Time) {
			hi = v
		}
	}
	if lo == nil {
		return "", ""
	}
	return lo.Raw, hi.Raw
}

// correlationMatrix computes pairwise r over rows where both cells are present.
func correlationMatrix(ds *dataset.Dataset, numCols []int) *CorrMatrix {
	n := len(numCols)
	names := ds.ColumnNames()
	accs := make([][]pairAcc, n)
	for i := range accs {
		accs[i] = make([]pairAcc, n)
	}
	for r := 0; r < ds.Len(); r++ {
		row := ds.Row(r)
		for a := 1; a < n; a++ {
			x, okx := row[numCols[a]].Float()
			if !okx {
				continue
			}
			for b := 0; b < a; b++ {
				if y, oky := row[numCols[b]].Float(); oky {
					accs[a][b].add(x, y)
				}
			}
		}
	}
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for a := 0; a < n; a++ {
		m.Columns[a] = names[numCols[a]]
		m.Values[a] = make([]float64, n)
		m.Values[a][a] = 1
	}
	for a := 1; a < n; a++ {
		for b := 0; b < a; b++ {
			r, _ := accs[a][b].r()
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// TopPairs lists the strongest off-diagonal correlations by |r|.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai := math.Abs(pairs[i].R)
		aj := math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// Markdown renders a compact profile suitable for standalone docs.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case dataset.Numeric:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
			if c.Outliers != nil {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.Outliers.Count, c.Outliers.Threshold))
				if c.Outliers.MaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.Outliers.MaxAbsZ))
				}
			}
		case dataset.Datetime:
			if c.First != "" {
				b.WriteString(fmt.Sprintf(": %s to %s", c.First, c.Last))
			}
		default:
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if p.Corr != nil && len(p.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, pr := range p.Corr.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pr.A, pr.B, pr.R))
		}
	}
	if len(p.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range p.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range p.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range p.Samples {
			b.WriteString("| ")
			for i := range p.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range p.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
