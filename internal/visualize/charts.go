package visualize

import (
	"fmt"
	"math"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorAlternateGray,
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
}

// seriesColor returns palette[i], then golden-angle hues once the palette
// is used up so every series stays distinct.
func seriesColor(i int) drawing.Color {
	if i < len(palette) {
		return palette[i]
	}
	h := math.Mod(float64(i-len(palette))*137.508+15, 360)
	l := 0.45
	if (i-len(palette))/8%2 == 1 {
		l = 0.62
	}
	return hslColor(h, 0.65, l)
}

func hslColor(h, s, l float64) drawing.Color {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return drawing.Color{R: to8(r), G: to8(g), B: to8(b), A: 255}
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// column resolves a name to its cells; "index" falls back to row positions.
func column(ds *dataset.Dataset, name string) ([]dataset.Value, dataset.Kind, error) {
	if c, ok := ds.Column(name); ok {
		vals, _ := ds.Values(name)
		return vals, c.Kind, nil
	}
	if name == IndexColumn {
		vals := make([]dataset.Value, ds.Len())
		for i := range vals {
			vals[i] = dataset.Value{Raw: fmt.Sprint(i), Num: float64(i), IsNum: true}
		}
		return vals, dataset.Numeric, nil
	}
	return nil, "", dataset.Errorf(dataset.InvalidRequest, "plot", "column %q not found", name)
}

func requireKind(name string, got dataset.Kind, allowed ...dataset.Kind) error {
	for _, k := range allowed {
		if got == k {
			return nil
		}
	}
	return dataset.Errorf(dataset.InvalidRequest, "plot", "column %q is %s, need %s", name, got, allowed[0])
}

type point struct {
	x, y float64
	t    time.Time
	hue  string
}

// finite returns the cell as a float when it is present and not ±Inf or NaN.
func finite(v dataset.Value) (float64, bool) {
	f, ok := v.Float()
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// points pairs x and y cells, skipping rows where either is missing or
// not finite.
func points(xs, ys []dataset.Value, hue []dataset.Value) []point {
	out := make([]point, 0, len(xs))
	for i := range xs {
		x, okx := finite(xs[i])
		y, oky := finite(ys[i])
		if !okx || !oky {
			continue
		}
		pt := point{x: x, y: y, t: xs[i].Time}
		if hue != nil {
			if hue[i].Missing {
				continue
			}
			pt.hue = hue[i].Raw
		}
		out = append(out, pt)
	}
	return out
}

func (p *Plotter) xyColumns(ds *dataset.Dataset, req Request, xKinds ...dataset.Kind) (xs, ys []dataset.Value, xKind dataset.Kind, err error) {
	xs, xKind, err = column(ds, req.X)
	if err != nil {
		return nil, nil, "", err
	}
	if err = requireKind(req.X, xKind, xKinds...); err != nil {
		return nil, nil, "", err
	}
	var yKind dataset.Kind
	ys, yKind, err = column(ds, req.Y)
	if err != nil {
		return nil, nil, "", err
	}
	if err = requireKind(req.Y, yKind, dataset.Numeric); err != nil {
		return nil, nil, "", err
	}
	return xs, ys, xKind, nil
}

// baseChart leaves an axis on auto range when its range is nil.
func (p *Plotter) baseChart(req Request, series []chart.Series, xr, yr chart.Range) chart.Chart {
	w, h := p.size()
	return chart.Chart{
		Title:      req.title(),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: req.xLabel(), Range: xr},
		YAxis:      chart.YAxis{Name: req.yLabel(), Range: yr},
		Series:     series,
	}
}

// lineChart plots y against a numeric or datetime x, sorted by x, averaging
// duplicate x values.
func (p *Plotter) lineChart(ds *dataset.Dataset, req Request) (renderable, error) {
	xs, ys, xKind, err := p.xyColumns(ds, req, dataset.Numeric, dataset.Datetime)
	if err != nil {
		return nil, err
	}
	pts := points(xs, ys, nil)
	if len(pts) == 0 {
		return nil, dataset.Errorf(dataset.InvalidRequest, "plot", "no rows with values for %q and %q", req.X, req.Y)
	}
	if err := checkSpan(req.Y, pts, func(pt point) float64 { return pt.y }); err != nil {
		return nil, err
	}
	if xKind != dataset.Datetime {
		if err := checkSpan(req.X, pts, func(pt point) float64 { return pt.x }); err != nil {
			return nil, err
		}
	}
	pts = meanByX(pts)
	style := lineStyle(palette[0])
	if len(pts) == 1 {
		style.DotWidth = 6
		style.DotColor = palette[0]
	}
	if xKind == dataset.Datetime {
		ts := chart.TimeSeries{Name: req.Y, Style: style}
		for _, pt := range pts {
			ts.XValues = append(ts.XValues, pt.t)
			ts.YValues = append(ts.YValues, pt.y)
		}
		if len(pts) == 1 {
			ts.XValues = append(ts.XValues, pts[0].t.Add(time.Second))
			ts.YValues = append(ts.YValues, pts[0].y)
		}
		return p.baseChart(req, []chart.Series{ts}, nil, axisRange(ts.YValues)), nil
	}
	cs := chart.ContinuousSeries{Name: req.Y, Style: style}
	for _, pt := range pts {
		cs.XValues = append(cs.XValues, pt.x)
		cs.YValues = append(cs.YValues, pt.y)
	}
	return p.baseChart(req, []chart.Series{cs}, axisRange(cs.XValues), axisRange(cs.YValues)), nil
}

// scatterChart draws points; with a hue column each distinct value becomes
// its own colored series with a legend entry.
func (p *Plotter) scatterChart(ds *dataset.Dataset, req Request) (renderable, error) {
	xs, ys, _, err := p.xyColumns(ds, req, dataset.Numeric)
	if err != nil {
		return nil, err
	}
	var hue []dataset.Value
	if req.Hue != "" {
		if hue, _, err = column(ds, req.Hue); err != nil {
			return nil, err
		}
	}
	pts := points(xs, ys, hue)
	if len(pts) == 0 {
		return nil, dataset.Errorf(dataset.InvalidRequest, "plot", "no rows with values for %q and %q", req.X, req.Y)
	}

	if err := checkSpan(req.X, pts, func(pt point) float64 { return pt.x }); err != nil {
		return nil, err
	}
	if err := checkSpan(req.Y, pts, func(pt point) float64 { return pt.y }); err != nil {
		return nil, err
	}

	var order []string
	groups := map[string]*chart.ContinuousSeries{}
	allX := make([]float64, 0, len(pts))
	allY := make([]float64, 0, len(pts))
	for _, pt := range pts {
		g := groups[pt.hue]
		if g == nil {
			name := pt.hue
			if req.Hue == "" {
				name = req.Y
			}
			g = &chart.ContinuousSeries{Name: name, Style: pointStyle(seriesColor(len(order)))}
			groups[pt.hue] = g
			order = append(order, pt.hue)
		}
		g.XValues = append(g.XValues, pt.x)
		g.YValues = append(g.YValues, pt.y)
		allX = append(allX, pt.x)
		allY = append(allY, pt.y)
	}
	series := make([]chart.Series, 0, len(order))
	for _, k := range order {
		series = append(series, *groups[k])
	}
	ch := p.baseChart(req, series, paddedRange(allX), paddedRange(allY))
	if req.Hue != "" {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch, nil
}

// barChart shows the mean of y for each distinct x in first-seen order.
func (p *Plotter) barChart(ds *dataset.Dataset, req Request) (renderable, error) {
	xs, _, err := column(ds, req.X)
	if err != nil {
		return nil, err
	}
	ys, yKind, err := column(ds, req.Y)
	if err != nil {
		return nil, err
	}
	if err := requireKind(req.Y, yKind, dataset.Numeric); err != nil {
		return nil, err
	}
	bars := barMeans(xs, ys)
	if len(bars) == 0 {
		return nil, dataset.Errorf(dataset.InvalidRequest, "plot", "no rows with values for %q and %q", req.X, req.Y)
	}
	vals := []float64{0}
	for _, b := range bars {
		vals = append(vals, b.Value)
	}
	if lo, hi := bounds(vals); math.IsInf(hi-lo, 0) {
		return nil, dataset.Errorf(dataset.InvalidRequest, "plot", "range of mean %q is too wide to draw (%g to %g)", req.Y, lo, hi)
	}
	return p.newBarChart(req, bars), nil
}

func barMeans(xs, ys []dataset.Value) []chart.Value {
	type acc struct {
		n    int
		mean float64
	}
	var order []string
	accs := map[string]*acc{}
	for i := range xs {
		if xs[i].Missing {
			continue
		}
		y, ok := finite(ys[i])
		if !ok {
			continue
		}
		a := accs[xs[i].Raw]
		if a == nil {
			a = &acc{}
			accs[xs[i].Raw] = a
			order = append(order, xs[i].Raw)
		}
		a.n++
		a.mean += (y - a.mean) / float64(a.n)
	}
	out := make([]chart.Value, 0, len(order))
	for i, k := range order {
		out = append(out, chart.Value{
			Label: k,
			Value: accs[k].mean,
			Style: chart.Style{FillColor: seriesColor(i), StrokeColor: seriesColor(i)},
		})
	}
	return out
}

// histChart counts the finite x values into equal-width bins across
// [min, max].
func (p *Plotter) histChart(ds *dataset.Dataset, req Request) (renderable, error) {
	xs, kind, err := column(ds, req.X)
	if err != nil {
		return nil, err
	}
	if err := requireKind(req.X, kind, dataset.Numeric); err != nil {
		return nil, err
	}
	vals := make([]float64, 0, len(xs))
	for _, v := range xs {
		if f, ok := finite(v); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return nil, dataset.Errorf(dataset.InvalidRequest, "plot", "column %q has no finite values", req.X)
	}
	counts, edges := histogram(vals, p.bins())
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.3g", edges[i]),
			Value: float64(c),
			Style: chart.Style{FillColor: palette[0], StrokeColor: palette[0]},
		}
	}
	return p.newBarChart(req, bars), nil
}

// histogram returns bin counts and the len(counts)+1 bin edges. The last bin
// includes max. vals must be finite; when max-min overflows float64 the
// positions are computed on halved values.
func histogram(vals []float64, bins int) ([]int, []float64) {
	if bins < 1 {
		bins = 1
	}
	lo, hi := bounds(vals)
	if lo == hi {
		return []int{len(vals)}, []float64{lo, hi}
	}
	scale := 1.0
	if math.IsInf(hi-lo, 0) {
		scale = 0.5
	}
	width := (hi*scale - lo*scale) / float64(bins)
	counts := make([]int, bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = (lo*scale + float64(i)*width) / scale
	}
	edges[0], edges[bins] = lo, hi
	for _, v := range vals {
		pos := (v*scale - lo*scale) / width
		i := 0
		if !math.IsNaN(pos) && pos > 0 {
			i = int(math.Min(pos, float64(bins-1)))
		}
		counts[i]++
	}
	return counts, edges
}

func (p *Plotter) newBarChart(req Request, bars []chart.Value) chart.BarChart {
	w, h := p.size()
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = lo + 1
	}
	avail := w - 120
	per := max(avail/len(bars), 3)
	barWidth := max(per*2/3, 2)
	return chart.BarChart{
		Title:      req.title(),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   barWidth,
		BarSpacing: per - barWidth,
		YAxis:      chart.YAxis{Name: req.yLabel(), Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Bars:       bars,
	}
}

// meanByX sorts points by x and collapses equal x values into their mean.
func meanByX(pts []point) []point {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].x < pts[j].x })
	out := pts[:0:0]
	for i := 0; i < len(pts); {
		j, mean := i, 0.0
		for j < len(pts) && pts[j].x == pts[i].x {
			mean += (pts[j].y - mean) / float64(j-i+1)
			j++
		}
		pt := pts[i]
		pt.y = mean
		out = append(out, pt)
		i = j
	}
	return out
}

// checkSpan rejects values whose range go-chart cannot scale because
// max-min overflows float64.
func checkSpan(name string, pts []point, val func(point) float64) error {
	vals := make([]float64, len(pts))
	for i, pt := range pts {
		vals[i] = val(pt)
	}
	lo, hi := bounds(vals)
	if math.IsInf(hi-lo, 0) {
		return dataset.Errorf(dataset.InvalidRequest, "plot", "range of %q is too wide to draw (%g to %g)", name, lo, hi)
	}
	return nil
}

// axisRange is nil (auto) unless every value is equal, which go-chart
// cannot scale. The nil must stay an untyped nil interface: go-chart only
// checks Range == nil before calling its methods.
func axisRange(vals []float64) chart.Range {
	lo, hi := bounds(vals)
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// paddedRange adds a 5% margin so edge points are not clipped.
func paddedRange(vals []float64) chart.Range {
	lo, hi := bounds(vals)
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi/2 - lo/2) * 0.1
	if math.IsInf((hi+pad)-(lo-pad), 0) {
		pad = 0
	}
	return &chart.ContinuousRange{
		Min: math.Max(lo-pad, -math.MaxFloat64),
		Max: math.Min(hi+pad, math.MaxFloat64),
	}
}

func bounds(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
