package app

import (
	"context"
	"fmt"
	"time"

	"riskexplorer/adapters/excel"
	"riskexplorer/domain/dataset"
	"riskexplorer/internal"
	"riskexplorer/internal/filter"
	"riskexplorer/internal/profiling"
	"riskexplorer/ports"

	"github.com/go-gota/gota/dataframe"
)

// MsgChartFailed prefixes an inline chart error
const MsgChartFailed = "Error plotting chart: %v"

// Request is the complete control state of one run
type Request struct {
	Source     Source
	Selections filter.Selections
	Chart      dataset.ChartSpec
	// SkipChart leaves the chart out, for exports
	SkipChart bool
}

// View is everything one run produces. When Loaded is false only the source
// fields and Notice are set.
type View struct {
	Source      dataset.SourceKind
	URL         string
	UploadToken string
	UploadName  string
	Notice      *dataset.Notice
	Loaded      bool

	Table          dataframe.DataFrame
	DefaultHeaders bool
	Widgets        []filter.Widget
	Selections     filter.Selections
	Filtered       dataframe.DataFrame
	Summary        []profiling.ColumnSummary

	Chart      dataset.ChartSpec
	Rendered   *dataset.Chart
	ChartError string
}

// ExplorerService runs the load, filter, summarize and render pipeline. It
// holds no per-request state, so one instance serves every request.
type ExplorerService struct {
	loader   *Loader
	renderer ports.ChartRendererPort
	log      *internal.Logger
}

// NewExplorerService creates the pipeline service
func NewExplorerService(loader *Loader, renderer ports.ChartRendererPort) *ExplorerService {
	return &ExplorerService{
		loader:   loader,
		renderer: renderer,
		log:      internal.DefaultLogger.With("explorer"),
	}
}

// Run executes the pipeline for req from scratch. Load and render failures
// are reported in the view; the error is reserved for faults in filtering.
func (s *ExplorerService) Run(ctx context.Context, req Request) (*View, error) {
	start := time.Now()
	view := &View{Source: req.Source.Kind, URL: req.Source.URL}

	loaded := s.loader.Load(ctx, req.Source)
	view.Notice = loaded.Notice
	view.UploadToken, view.UploadName = loaded.UploadToken, loaded.UploadName
	if loaded.Table == nil {
		return view, nil
	}

	df := *loaded.Table
	view.Loaded = true
	view.Table = df
	view.DefaultHeaders = excel.HasDefaultHeaders(df)
	view.Widgets = filter.Plan(df)
	view.Selections = make(filter.Selections, len(view.Widgets))
	for _, w := range view.Widgets {
		sel, given := req.Selections[w.Name]
		view.Selections[w.Name] = w.Effective(sel, given)
	}

	filtered, err := filter.Apply(df, view.Widgets, view.Selections)
	if err != nil {
		return nil, err
	}
	view.Filtered = filtered
	view.Summary = profiling.Describe(filtered)
	view.Chart = resolveChart(filtered, req.Chart)

	if !req.SkipChart && view.Chart.X != "" {
		chart, err := s.renderer.Render(filtered, view.Chart)
		if err != nil {
			view.ChartError = fmt.Sprintf(MsgChartFailed, err)
		}
		view.Rendered = chart
	}

	s.log.Debug("pipeline run in %s: %d of %d rows kept", time.Since(start), filtered.Nrow(), df.Nrow())
	return view, nil
}

// resolveChart defaults X to the first column and drops unknown columns
func resolveChart(df dataframe.DataFrame, spec dataset.ChartSpec) dataset.ChartSpec {
	names := df.Names()
	has := func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	if !has(spec.X) {
		spec.X = ""
		if len(names) > 0 {
			spec.X = names[0]
		}
	}
	if spec.Y != "" && !has(spec.Y) {
		spec.Y = ""
	}
	if spec.Kind == "" {
		spec.Kind = dataset.ChartHistogram
	}
	return spec
}
