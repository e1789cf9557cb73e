package analysis

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// Summary holds the describe-style statistics of a numeric column.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes count, mean, sample std, min, quartiles and max. Std is
// NaN for fewer than two values; every field but Count is NaN for none.
func Describe(vals []float64) Summary {
	if len(vals) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	s := stats.Sample{Xs: cp, Sorted: true}
	lo, hi := s.Bounds()
	out := Summary{
		Count:  len(cp),
		Mean:   s.Mean(),
		Std:    math.NaN(),
		Min:    lo,
		Max:    hi,
		Q1:     quantile(cp, 0.25),
		Median: quantile(cp, 0.5),
		Q3:     quantile(cp, 0.75),
	}
	if len(cp) > 1 {
		out.Std = s.StdDev()
	}
	return out
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// Outliers counts robust z-scores (0.6745*(x-median)/MAD) above threshold.
type Outliers struct {
	Count     int
	MaxAbsZ   float64
	Threshold float64
}

const minOutlierValues = 8

// robustOutliers returns nil when there are too few values to judge.
func robustOutliers(vals []float64, threshold float64) *Outliers {
	if len(vals) < minOutlierValues {
		return nil
	}
	if threshold <= 0 {
		threshold = 3.5
	}
	out := &Outliers{Threshold: threshold}
	median, mad := medianMAD(vals)
	if mad == 0 {
		return out
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > threshold {
			out.Count++
		}
		if az > out.MaxAbsZ {
			out.MaxAbsZ = az
		}
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// pairAcc accumulates Welford co-moments for an exact Pearson r.
type pairAcc struct {
	n     float64
	meanX float64
	meanY float64
	m2x   float64
	m2y   float64
	cxy   float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	dx := x - pa.meanX
	dy := y - pa.meanY
	pa.meanX += dx / pa.n
	pa.meanY += dy / pa.n
	pa.m2x += dx * (x - pa.meanX)
	pa.m2y += dy * (y - pa.meanY)
	pa.cxy += dx * (y - pa.meanY)
}

// r returns the correlation, or false when fewer than two pairs were seen
// or either side has zero variance.
func (pa *pairAcc) r() (float64, bool) {
	if pa.n < 2 {
		return 0, false
	}
	denom := math.Sqrt(pa.m2x * pa.m2y)
	if denom == 0 || math.IsNaN(denom) {
		return 0, false
	}
	r := pa.cxy / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
