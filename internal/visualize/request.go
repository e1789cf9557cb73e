package visualize

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is the chart type.
type Kind string

const (
	Line    Kind = "line"
	Bar     Kind = "bar"
	Hist    Kind = "hist"
	Scatter Kind = "scatter"
)

// IndexColumn names the row position when the dataset has no column of
// that name.
const IndexColumn = "index"

// ParseKind normalizes a plot type; "histogram" is accepted for hist.
// Unknown names are returned unchanged and rejected by validation.
func ParseKind(s string) Kind {
	k := strings.ToLower(strings.TrimSpace(s))
	if k == "histogram" {
		return Hist
	}
	return Kind(k)
}

// Request describes one chart.
type Request struct {
	Kind   Kind   `json:"kind" yaml:"kind" validate:"required,oneof=line bar hist scatter"`
	X      string `json:"x" yaml:"x" validate:"required"`
	Y      string `json:"y" yaml:"y,omitempty" validate:"required_unless=Kind hist"`
	Hue    string `json:"hue" yaml:"hue,omitempty"`
	Title  string `json:"title" yaml:"title,omitempty" validate:"max=200"`
	XLabel string `json:"xlabel" yaml:"xlabel,omitempty" validate:"max=200"`
	YLabel string `json:"ylabel" yaml:"ylabel,omitempty" validate:"max=200"`
}

func (r Request) normalized() Request {
	r.Kind = ParseKind(string(r.Kind))
	r.X = strings.TrimSpace(r.X)
	r.Y = strings.TrimSpace(r.Y)
	r.Hue = strings.TrimSpace(r.Hue)
	if r.Kind == Hist {
		r.Y = ""
	}
	return r
}

func (r Request) title() string {
	if r.Title != "" {
		return r.Title
	}
	switch r.Kind {
	case Scatter:
		return fmt.Sprintf("%s vs %s", r.Y, r.X)
	case Bar:
		return fmt.Sprintf("Mean %s by %s", r.Y, r.X)
	case Hist:
		return fmt.Sprintf("Distribution of %s", r.X)
	default:
		return fmt.Sprintf("%s over %s", r.Y, r.X)
	}
}

func (r Request) xLabel() string {
	if r.XLabel != "" {
		return r.XLabel
	}
	return r.X
}

func (r Request) yLabel() string {
	if r.YLabel != "" {
		return r.YLabel
	}
	if r.Kind == Hist {
		return "count"
	}
	return r.Y
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessages flattens validator errors into readable messages.
func validationMessages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, formatValidationError(fe))
	}
	return out
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_unless":
		return fmt.Sprintf("%s is required for this plot type", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", field, strings.ReplaceAll(param, " ", ", "), err.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
