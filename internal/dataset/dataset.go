package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Datetime    Kind = "datetime"
	Categorical Kind = "categorical"
)

// Column describes one named column of a Dataset.
type Column struct {
	Name string
	Kind Kind
}

// Value is a single cell. Raw keeps the original text; Num and Time are
// populated when the cell parses as a number or a timestamp.
type Value struct {
	Raw     string
	Num     float64
	Time    time.Time
	IsNum   bool
	IsTime  bool
	Missing bool
}

// Float returns the numeric reading of v. Timestamps map to Unix seconds.
func (v Value) Float() (float64, bool) {
	switch {
	case v.Missing:
		return 0, false
	case v.IsNum:
		return v.Num, true
	case v.IsTime:
		return float64(v.Time.Unix()), true
	}
	return 0, false
}

// Row holds one Value per column, in column order.
type Row []Value

// Dataset is an immutable, row-aligned table. Every row has exactly
// len(Columns()) values.
type Dataset struct {
	name    string
	columns []Column
	index   map[string]int
	rows    []Row
}

var missingTokens = map[string]struct{}{
	"":      {},
	"na":    {},
	"n/a":   {},
	"nan":   {},
	"null":  {},
	"<nil>": {},
}

// IsMissing reports whether s is one of the recognized missing-value tokens.
func IsMissing(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseValue interprets a raw cell.
func ParseValue(s string) Value {
	raw := strings.TrimSpace(s)
	if IsMissing(raw) {
		return Value{Raw: raw, Missing: true}
	}
	v := Value{Raw: raw}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		v.Num = f
		v.IsNum = true
		return v
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			v.Time = t
			v.IsTime = true
			break
		}
	}
	return v
}

// FromRecords builds a Dataset from a header and raw string records.
// Column kinds are inferred from the non-missing cells.
func FromRecords(name string, header []string, records [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, &Error{Kind: MalformedInput, Op: "build dataset", Err: fmt.Errorf("empty header")}
	}
	cols := make([]Column, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			return nil, &Error{Kind: MalformedInput, Op: "build dataset", Err: fmt.Errorf("column %d has no name", i+1)}
		}
		if _, dup := index[n]; dup {
			return nil, &Error{Kind: MalformedInput, Op: "build dataset", Err: fmt.Errorf("duplicate column %q", n)}
		}
		index[n] = i
		cols[i] = Column{Name: n}
	}
	rows := make([]Row, 0, len(records))
	for r, rec := range records {
		if len(rec) != len(cols) {
			return nil, &Error{
				Kind: MalformedInput,
				Op:   "build dataset",
				Err:  fmt.Errorf("row %d has %d fields, want %d", r+1, len(rec), len(cols)),
			}
		}
		row := make(Row, len(rec))
		for j, cell := range rec {
			row[j] = ParseValue(cell)
		}
		rows = append(rows, row)
	}
	for j := range cols {
		cols[j].Kind = inferKind(rows, j)
	}
	return &Dataset{name: name, columns: cols, index: index, rows: rows}, nil
}

func inferKind(rows []Row, j int) Kind {
	var num, dt, total int
	for _, row := range rows {
		v := row[j]
		if v.Missing {
			continue
		}
		total++
		if v.IsNum {
			num++
		} else if v.IsTime {
			dt++
		}
	}
	switch {
	case total > 0 && num == total:
		return Numeric
	case total > 0 && dt == total:
		return Datetime
	}
	return Categorical
}

// Name is the source name the dataset was loaded from.
func (d *Dataset) Name() string { return d.name }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns a copy of the column list.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.columns))
	for i, c := range d.columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Index returns the position of a column or -1.
func (d *Dataset) Index(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// Row returns row i. The returned slice must not be modified.
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// Values returns the cells of a column in row order.
func (d *Dataset) Values(name string) ([]Value, bool) {
	j, ok := d.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[j]
	}
	return out, true
}

// Floats returns the numeric readings of a numeric or datetime column,
// skipping missing cells.
func (d *Dataset) Floats(name string) ([]float64, error) {
	c, ok := d.Column(name)
	if !ok {
		return nil, MissingColumn(name)
	}
	if c.Kind == Categorical {
		return nil, &Error{Kind: InvalidSelector, Op: "read column", Err: fmt.Errorf("column %q is %s, not numeric", name, c.Kind)}
	}
	j := d.index[name]
	out := make([]float64, 0, len(d.rows))
	for _, row := range d.rows {
		if f, ok := row[j].Float(); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// MissingCounts returns the number of missing cells per column, aligned
// with Columns().
func (d *Dataset) MissingCounts() []int {
	out := make([]int, len(d.columns))
	for _, row := range d.rows {
		for j, v := range row {
			if v.Missing {
				out[j]++
			}
		}
	}
	return out
}

// HasMissing reports whether any cell is missing.
func (d *Dataset) HasMissing() bool {
	for _, n := range d.MissingCounts() {
		if n > 0 {
			return true
		}
	}
	return false
}

// DropMissing returns a new dataset without the rows that contain at least
// one missing value. Column kinds are re-inferred on the surviving rows.
func (d *Dataset) DropMissing() *Dataset {
	kept := make([]Row, 0, len(d.rows))
	for _, row := range d.rows {
		complete := true
		for _, v := range row {
			if v.Missing {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, row)
		}
	}
	return d.derive(kept)
}

// Head returns a new dataset holding the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.rows) {
		n = len(d.rows)
	}
	return d.derive(d.rows[:n:n])
}

func (d *Dataset) derive(rows []Row) *Dataset {
	cols := make([]Column, len(d.columns))
	copy(cols, d.columns)
	out := &Dataset{name: d.name, columns: cols, index: d.index, rows: rows}
	if len(rows) == 0 {
		return out
	}
	for j := range out.columns {
		out.columns[j].Kind = inferKind(rows, j)
	}
	return out
}

// Records renders the dataset as a header row followed by raw records.
func (d *Dataset) Records() [][]string {
	out := make([][]string, 0, len(d.rows)+1)
	out = append(out, d.ColumnNames())
	for _, row := range d.rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.Raw
		}
		out = append(out, rec)
	}
	return out
}
