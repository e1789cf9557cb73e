// Package pipeline runs load, analysis and plotting steps in order and
// records the outcome of each.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/loader"
	"github.com/KaramelBytes/eda-cli/internal/logging"
	"github.com/KaramelBytes/eda-cli/internal/utils"
	"github.com/KaramelBytes/eda-cli/internal/visualize"
)

// SummaryFile is written into the output directory after each run.
const SummaryFile = "summary.json"

// Runner executes a Plan against one data source.
type Runner struct {
	Loader   loader.Options
	Analysis analysis.Options
	Plotter  visualize.Plotter
	// Plan overrides the default: IrisPlan for iris, AutoPlan otherwise.
	Plan Plan
	// Out receives reports and findings; nil discards them.
	Out io.Writer
	Log logrus.FieldLogger
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step   string            `json:"step"`
	Output string            `json:"output,omitempty"`
	Kind   dataset.ErrorKind `json:"error_kind,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Failed reports whether the step returned an error.
func (s StepResult) Failed() bool { return s.Error != "" }

// Result collects everything a run produced.
type Result struct {
	RunID   string             `json:"run_id"`
	Source  string             `json:"source"`
	Path    string             `json:"path,omitempty"`
	Rows    int                `json:"rows"`
	OutDir  string             `json:"output_dir,omitempty"`
	Charts  []string           `json:"charts,omitempty"`
	Steps   []StepResult       `json:"steps"`
	Reports []*analysis.Report `json:"-"`
	Dataset *dataset.Dataset   `json:"-"`
}

// Loaded reports whether the load step succeeded.
func (r *Result) Loaded() bool { return r.Dataset != nil }

// Failures returns the steps that failed.
func (r *Result) Failures() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}

func (r *Result) record(step, output string, err error) {
	sr := StepResult{Step: step, Output: output}
	if err != nil {
		sr.Kind = dataset.KindOf(err)
		sr.Error = err.Error()
	}
	r.Steps = append(r.Steps, sr)
}

// Run loads the source and, if that succeeds, runs every planned step.
// Step failures are logged and recorded but never stop the remaining steps.
func (r *Runner) Run(source, path string) *Result {
	res := &Result{RunID: uuid.NewString(), Source: source, Path: path}
	log := logging.OrDiscard(r.Log).WithFields(logrus.Fields{"run_id": res.RunID, "source": source})
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	lopt := r.Loader
	lopt.Log = log
	if lopt.Out == nil {
		lopt.Out = out
	}
	ds, err := loader.Load(source, path, lopt)
	res.record("load "+source, "", err)
	if err != nil {
		return res
	}
	res.Dataset = ds
	res.Rows = ds.Len()

	plan := r.Plan
	if plan.Empty() {
		if strings.EqualFold(strings.TrimSpace(source), "iris") {
			plan = IrisPlan()
		} else {
			plan = AutoPlan(ds)
		}
	}

	aopt := r.Analysis
	aopt.Log = log
	for _, a := range plan.Analyses {
		rep, err := analysis.Analyze(ds, a.Categorical, a.Numerical, aopt)
		res.record(fmt.Sprintf("analyze %s by %s", a.Numerical, a.Categorical), "", err)
		if err != nil {
			continue
		}
		res.Reports = append(res.Reports, rep)
		fmt.Fprint(out, rep.Text())
	}

	plotter := r.Plotter
	plotter.Log = log
	if plotter.OutDir == "" {
		plotter.OutDir = filepath.Join(os.TempDir(), "eda-"+res.RunID)
	}
	for _, req := range plan.Plots {
		chart, err := plotter.Plot(ds, req)
		res.record(fmt.Sprintf("plot %s %s", visualize.ParseKind(string(req.Kind)), req.X), chart, err)
		if err == nil {
			res.Charts = append(res.Charts, chart)
		}
	}
	if len(res.Charts) > 0 {
		res.OutDir = plotter.OutDir
		if err := res.WriteSummary(res.OutDir); err != nil {
			log.Warnf("write run summary: %v", err)
		}
	}

	if len(plan.Findings) > 0 {
		fmt.Fprintf(out, "\n--- Findings and Observations (%s) ---\n", ds.Name())
		for i, f := range plan.Findings {
			fmt.Fprintf(out, "%d.  %s\n", i+1, f)
		}
	}
	log.WithFields(logrus.Fields{
		"steps":    len(res.Steps),
		"failures": len(res.Failures()),
		"charts":   len(res.Charts),
	}).Info("run complete")
	return res
}

// WriteSummary writes the result as JSON into dir.
func (r *Result) WriteSummary(dir string) error {
	b, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(dir, SummaryFile), b)
}
