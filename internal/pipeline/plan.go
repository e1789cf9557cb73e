package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
	"github.com/KaramelBytes/eda-cli/internal/visualize"
)

// AnalysisStep selects the columns for one analysis.Analyze call.
type AnalysisStep struct {
	Categorical string `json:"categorical" yaml:"categorical"`
	Numerical   string `json:"numerical" yaml:"numerical"`
}

// Plan lists the steps a Runner executes after loading.
type Plan struct {
	Analyses []AnalysisStep      `json:"analyses" yaml:"analyses"`
	Plots    []visualize.Request `json:"plots" yaml:"plots"`
	// Findings are printed after every other step.
	Findings []string `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Empty reports whether the plan has no steps.
func (p Plan) Empty() bool {
	return len(p.Analyses) == 0 && len(p.Plots) == 0 && len(p.Findings) == 0
}

// LoadPlan reads a YAML plan file. Unknown keys are rejected so typos do not
// silently drop steps. Plot requests are validated when they run.
func LoadPlan(path string) (Plan, error) {
	const op = "load plan"
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Plan{}, &dataset.Error{Kind: dataset.NotFound, Op: op, Err: fmt.Errorf("plan not found at %s", path)}
		}
		return Plan{}, &dataset.Error{Kind: dataset.Unexpected, Op: op, Err: err}
	}
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Plan{}, &dataset.Error{Kind: dataset.MalformedInput, Op: op, Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	for i, a := range p.Analyses {
		if a.Categorical == "" || a.Numerical == "" {
			return Plan{}, dataset.Errorf(dataset.InvalidRequest, op, "analysis %d needs categorical and numerical", i+1)
		}
	}
	if p.Empty() {
		return Plan{}, dataset.Errorf(dataset.InvalidRequest, op, "%s has no steps", path)
	}
	return p, nil
}

// IrisPlan is the walkthrough run against the built-in dataset.
func IrisPlan() Plan {
	return Plan{
		Analyses: []AnalysisStep{{Categorical: "species", Numerical: "sepal length (cm)"}},
		Plots: []visualize.Request{
			{Kind: visualize.Scatter, X: "sepal length (cm)", Y: "sepal width (cm)", Hue: "species", Title: "Sepal Length vs. Sepal Width"},
			{Kind: visualize.Bar, X: "species", Y: "petal length (cm)", Title: "Average Petal Length by Species"},
			{Kind: visualize.Hist, X: "petal length (cm)", Title: "Petal Length Distribution"},
			{Kind: visualize.Line, X: visualize.IndexColumn, Y: "sepal length (cm)", Title: "Sepal Length over Index"},
		},
		Findings: []string{
			"The dataset contains measurements of sepal and petal length/width for three iris species (setosa, versicolor, virginica).",
			"There are no missing values in the cleaned dataset.",
			"'Setosa' has generally smaller petal lengths and widths compared to 'versicolor' and 'virginica'.",
			"There's some overlap in sepal measurements between 'versicolor' and 'virginica', but 'setosa' is distinct.",
			"The histogram shows the distribution of petal length, indicating a bimodal pattern.",
		},
	}
}

// AutoPlan picks columns from the dataset itself: the first categorical and
// first numeric column drive the analysis, a histogram, a bar chart and,
// with two numeric columns, a scatter plot.
func AutoPlan(ds *dataset.Dataset) Plan {
	var cat string
	var nums []string
	for _, c := range ds.Columns() {
		switch c.Kind {
		case dataset.Numeric:
			nums = append(nums, c.Name)
		case dataset.Categorical:
			if cat == "" {
				cat = c.Name
			}
		}
	}
	var p Plan
	if len(nums) == 0 {
		return p
	}
	p.Plots = append(p.Plots, visualize.Request{Kind: visualize.Hist, X: nums[0]})
	if cat != "" {
		p.Analyses = append(p.Analyses, AnalysisStep{Categorical: cat, Numerical: nums[0]})
		p.Plots = append(p.Plots, visualize.Request{Kind: visualize.Bar, X: cat, Y: nums[0]})
	}
	if len(nums) >= 2 {
		p.Plots = append(p.Plots, visualize.Request{Kind: visualize.Scatter, X: nums[0], Y: nums[1], Hue: cat})
	}
	return p
}
