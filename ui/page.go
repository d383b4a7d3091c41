package ui

import (
	"html/template"
	"math"
	"strconv"

	"riskexplorer/app"
	"riskexplorer/domain/dataset"
	"riskexplorer/internal/filter"
	"riskexplorer/internal/profiling"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const pageTitle = "Healthcare Risk Explorer – Upload, URL, or Local"

type option struct {
	Value    string
	Label    string
	Selected bool
}

type tableData struct {
	Columns   []string
	Rows      [][]string
	Total     int
	Truncated bool
}

type filterField struct {
	Name  string
	Label string
	Kind  string

	Min, Max string
	Lo, Hi   string
	Step     string

	Options []option
}

type pageData struct {
	Title       string
	Sources     []option
	Source      string
	URL         string
	UploadToken string
	UploadName  string
	LocalPath   string
	Notice      *dataset.Notice

	Loaded     bool
	Rows, Cols int
	Preview    tableData
	Filtered   tableData
	Filters    []filterField
	Summary    []profiling.ColumnSummary
	Glossary   template.HTML

	XOptions     []option
	YOptions     []option
	ChartOptions []option
	Chart        template.HTML
	ChartError   string

	// Permalink reopens this view with a GET request
	Permalink string
}

func (s *Server) newPage(view *app.View) pageData {
	page := pageData{
		Title:       pageTitle,
		Source:      string(view.Source),
		URL:         view.URL,
		UploadToken: view.UploadToken,
		UploadName:  view.UploadName,
		Notice:      view.Notice,
		LocalPath:   s.opts.LocalPath,
		Loaded:      view.Loaded,
	}
	for _, src := range dataset.Sources {
		page.Sources = append(page.Sources, option{Value: string(src), Label: src.Label(), Selected: src == view.Source})
	}
	if !view.Loaded {
		return page
	}

	page.Rows, page.Cols = view.Table.Nrow(), view.Table.Ncol()
	page.Preview = preview(view.Table, s.opts.PreviewRows)
	page.Filtered = preview(view.Filtered, s.opts.PreviewRows)
	page.Summary = view.Summary
	if view.DefaultHeaders {
		page.Glossary = s.glossary
	}
	for _, w := range view.Widgets {
		page.Filters = append(page.Filters, newFilterField(w, view.Selections[w.Name]))
	}

	names := view.Filtered.Names()
	page.YOptions = []option{{Value: noneValue, Label: "None", Selected: view.Chart.Y == ""}}
	for _, name := range names {
		page.XOptions = append(page.XOptions, option{Value: name, Label: name, Selected: name == view.Chart.X})
		page.YOptions = append(page.YOptions, option{Value: name, Label: name, Selected: name == view.Chart.Y})
	}
	for _, kind := range dataset.ChartKinds {
		page.ChartOptions = append(page.ChartOptions, option{Value: string(kind), Label: string(kind), Selected: kind == view.Chart.Kind})
	}
	if view.Rendered != nil {
		// the renderer escapes every label it takes from the table
		page.Chart = template.HTML(view.Rendered.SVG)
	}
	page.ChartError = view.ChartError
	page.Permalink = permalink(view)
	return page
}

func permalink(view *app.View) string {
	q := filter.Encode(view.Widgets, view.Selections)
	q.Set(fieldSource, string(view.Source))
	switch view.Source {
	case dataset.SourceURL:
		q.Set(fieldURL, view.URL)
	case dataset.SourceUpload:
		q.Set(fieldUploadToken, view.UploadToken)
	}
	q.Set(fieldX, view.Chart.X)
	y := view.Chart.Y
	if y == "" {
		y = noneValue
	}
	q.Set(fieldY, y)
	q.Set(fieldChart, string(view.Chart.Kind))
	return "/?" + q.Encode()
}

func newFilterField(w filter.Widget, sel filter.Selection) filterField {
	field := filterField{Name: w.Name, Label: w.Label}
	switch w.Kind {
	case filter.Numeric:
		field.Kind = "range"
		field.Min, field.Max = formatNum(w.Min), formatNum(w.Max)
		field.Lo, field.Hi = field.Min, field.Max
		if sel.Lo != nil && sel.Hi != nil {
			field.Lo, field.Hi = formatNum(*sel.Lo), formatNum(*sel.Hi)
		}
		field.Step = w.Step()
	case filter.BinaryCategory:
		field.Kind = "single"
		for _, c := range w.Choices {
			field.Options = append(field.Options, option{Value: c, Label: c, Selected: sel.HasValue && c == sel.Value})
		}
	default:
		field.Kind = "multi"
		chosen := make(map[string]bool, len(sel.Values))
		for _, v := range sel.Values {
			chosen[v] = true
		}
		for _, c := range w.Choices {
			field.Options = append(field.Options, option{Value: c, Label: c, Selected: chosen[c]})
		}
	}
	return field
}

// preview renders the first limit rows as display strings
func preview(df dataframe.DataFrame, limit int) tableData {
	data := tableData{Columns: df.Names(), Total: df.Nrow()}
	n := df.Nrow()
	if limit > 0 && n > limit {
		n = limit
		data.Truncated = true
	}
	cols := make([]series.Series, len(data.Columns))
	for j, name := range data.Columns {
		cols[j] = df.Col(name)
	}
	data.Rows = make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = formatCell(col.Elem(i), col.Type())
		}
		data.Rows[i] = row
	}
	return data
}

func formatCell(e series.Element, t series.Type) string {
	if e.IsNA() {
		return ""
	}
	if t == series.Float {
		return formatNum(e.Float())
	}
	return e.String()
}

func formatNum(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
