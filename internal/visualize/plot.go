// Package visualize renders line, bar, histogram and scatter charts of a
// dataset as PNG files.
package visualize

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/logging"
	"github.com/KaramelBytes/eda-cli/internal/utils"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 640
	DefaultBins   = 20
)

// Plotter renders charts into OutDir.
type Plotter struct {
	// OutDir receives the PNG files; empty means DefaultOutDir().
	OutDir string `json:"output_dir"`
	Width  int    `json:"chart_width" validate:"omitempty,gte=200,lte=4096"`
	Height int    `json:"chart_height" validate:"omitempty,gte=150,lte=4096"`
	// Bins is the histogram bin count; 0 means DefaultBins.
	Bins int `json:"hist_bins" validate:"omitempty,gte=1,lte=500"`

	Log logrus.FieldLogger `json:"-" validate:"-"`

	validate *validator.Validate
}

// DefaultOutDir returns a fresh directory path under the OS temp dir.
func DefaultOutDir() string {
	return filepath.Join(os.TempDir(), "eda-"+uuid.NewString())
}

// renderable is satisfied by chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Plot validates req against ds, renders it and returns the written path.
// Every failure is logged; invalid requests never touch the filesystem.
func (p *Plotter) Plot(ds *dataset.Dataset, req Request) (string, error) {
	req = req.normalized()
	log := logging.OrDiscard(p.Log).WithFields(logrus.Fields{
		"stage": "plot",
		"kind":  string(req.Kind),
		"x":     req.X,
	})
	path, err := p.plot(ds, req)
	if err != nil {
		log.WithField("error_kind", dataset.KindOf(err)).Errorf("plot failed: %v", err)
		return "", err
	}
	log.WithField("path", path).Info("chart written")
	return path, nil
}

func (p *Plotter) plot(ds *dataset.Dataset, req Request) (string, error) {
	const op = "plot"
	if p.validate == nil {
		p.validate = newValidator()
	}
	if err := p.validate.Struct(p); err != nil {
		return "", dataset.Errorf(dataset.InvalidRequest, op, "plotter settings: %s", strings.Join(validationMessages(err), "; "))
	}
	if err := p.validate.Struct(req); err != nil {
		return "", dataset.Errorf(dataset.InvalidRequest, op, "%s", strings.Join(validationMessages(err), "; "))
	}
	if ds == nil {
		return "", dataset.Errorf(dataset.InvalidRequest, op, "no dataset")
	}

	var (
		r   renderable
		err error
	)
	switch req.Kind {
	case Line:
		r, err = p.lineChart(ds, req)
	case Scatter:
		r, err = p.scatterChart(ds, req)
	case Bar:
		r, err = p.barChart(ds, req)
	case Hist:
		r, err = p.histChart(ds, req)
	}
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return "", &dataset.Error{Kind: dataset.Unexpected, Op: op, Err: fmt.Errorf("render %s chart: %w", req.Kind, err)}
	}
	dir := p.OutDir
	if dir == "" {
		dir = DefaultOutDir()
		p.OutDir = dir
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", &dataset.Error{Kind: dataset.Unexpected, Op: op, Err: fmt.Errorf("create output dir: %w", err)}
	}
	path := filepath.Join(dir, FileName(req))
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", &dataset.Error{Kind: dataset.Unexpected, Op: op, Err: err}
	}
	return path, nil
}

// FileName derives the PNG name from the plot type and title.
func FileName(req Request) string {
	req = req.normalized()
	return fmt.Sprintf("%s_%s.png", req.Kind, utils.Slug(req.title()))
}

func (p *Plotter) size() (int, int) {
	w, h := p.Width, p.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (p *Plotter) bins() int {
	if p.Bins <= 0 {
		return DefaultBins
	}
	return p.Bins
}
