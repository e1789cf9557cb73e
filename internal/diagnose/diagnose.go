// Package diagnose prints the human-readable dataset overview shown while
// loading: preview rows, column info, summary statistics and missing-value
// counts.
package diagnose

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/eda-cli/internal/dataset"
)

// Explore writes the head, info, describe and missing-value sections for ds.
func Explore(w io.Writer, ds *dataset.Dataset, sampleRows int) error {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	if ds.Len() == 0 {
		section(w, "Dataset", fmt.Sprintf("%s: no rows\n", ds.Name()))
		return Missing(w, "Missing Values (Before Cleaning)", ds)
	}
	head := Frame(ds.Head(sampleRows))
	if head.Err != nil {
		return fmt.Errorf("build preview: %w", head.Err)
	}
	section(w, fmt.Sprintf("First %d Rows", min(sampleRows, ds.Len())), head.String())

	info := Info(ds)
	if info.Err != nil {
		return fmt.Errorf("build info: %w", info.Err)
	}
	section(w, "Data Information", fmt.Sprintf("%s: %d entries, %d columns\n%s", ds.Name(), ds.Len(), len(ds.Columns()), info.String()))

	desc := Frame(ds).Describe()
	if desc.Err != nil {
		return fmt.Errorf("describe: %w", desc.Err)
	}
	section(w, "Summary Statistics", desc.String())
	return Missing(w, "Missing Values (Before Cleaning)", ds)
}

// Missing writes per-column missing-value counts under title.
func Missing(w io.Writer, title string, ds *dataset.Dataset) error {
	counts := ds.MissingCounts()
	df := dataframe.New(
		series.New(ds.ColumnNames(), series.String, "column"),
		series.New(counts, series.Int, "missing"),
	)
	if df.Err != nil {
		return fmt.Errorf("build missing table: %w", df.Err)
	}
	section(w, title, df.String())
	return nil
}

// Frame converts ds to a gota DataFrame; numeric columns become floats and
// missing cells become NaN.
func Frame(ds *dataset.Dataset) dataframe.DataFrame {
	cols := ds.Columns()
	types := make(map[string]series.Type, len(cols))
	for _, c := range cols {
		if c.Kind == dataset.Numeric {
			types[c.Name] = series.Float
		} else {
			types[c.Name] = series.String
		}
	}
	records := make([][]string, 0, ds.Len()+1)
	records = append(records, ds.ColumnNames())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		rec := make([]string, len(row))
		for j, v := range row {
			if v.Missing {
				rec[j] = "NaN"
				continue
			}
			rec[j] = v.Raw
		}
		records = append(records, rec)
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.WithTypes(types),
	)
}

// Info summarizes each column's kind and non-null count.
func Info(ds *dataset.Dataset) dataframe.DataFrame {
	cols := ds.Columns()
	missing := ds.MissingCounts()
	names := make([]string, len(cols))
	kinds := make([]string, len(cols))
	nonNull := make([]int, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		kinds[i] = string(c.Kind)
		nonNull[i] = ds.Len() - missing[i]
	}
	return dataframe.New(
		series.New(names, series.String, "column"),
		series.New(nonNull, series.Int, "non-null"),
		series.New(kinds, series.String, "kind"),
	)
}

func section(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n--- %s ---\n%s\n", title, body)
}
