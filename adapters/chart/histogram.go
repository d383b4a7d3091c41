package chart

import (
	"fmt"
	"io"
	"math"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	gochart "github.com/wcharczuk/go-chart/v2"
)

func (r *Renderer) histogram(w io.Writer, df dataframe.DataFrame, spec dataset.ChartSpec) error {
	s, err := column(df, spec.X)
	if err != nil {
		return err
	}
	if s.Type() != series.Int && s.Type() != series.Float {
		return r.categoryCounts(w, s, spec.X)
	}

	values, err := numeric(df, spec.X)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return errors.RenderFailed(fmt.Sprintf("column %q has no values to plot", spec.X))
	}

	edges := binEdges(values)
	counts := binCounts(values, edges)
	xs, ys := stepOutline(edges, counts)
	top := 0.0
	for _, c := range counts {
		top = math.Max(top, c)
	}

	plotted := []gochart.Series{
		gochart.ContinuousSeries{
			Name: "count",
			Style: gochart.Style{
				StrokeColor: primary,
				StrokeWidth: 1.5,
				FillColor:   primary.WithAlpha(110),
			},
			XValues: xs,
			YValues: ys,
		},
	}
	binWidth := edges[1] - edges[0]
	if kx, ky, ok := density(values, edges[0], edges[len(edges)-1], binWidth); ok {
		for _, y := range ky {
			top = math.Max(top, y)
		}
		plotted = append(plotted, gochart.ContinuousSeries{
			Name:    "density",
			Style:   gochart.Style{StrokeColor: secondary, StrokeWidth: 2},
			XValues: kx,
			YValues: ky,
		})
	}

	graph := r.canvas("Histogram of " + spec.X)
	graph.XAxis = gochart.XAxis{Name: label(spec.X), Range: &gochart.ContinuousRange{Min: edges[0], Max: edges[len(edges)-1]}}
	graph.YAxis = gochart.YAxis{Name: "Count", Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.1}}
	graph.Series = plotted
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.SVG, w)
}

// categoryCounts draws one bar per distinct value of a non-numeric column
func (r *Renderer) categoryCounts(w io.Writer, s series.Series, name string) error {
	keys := groupKeys(s)
	counts := make(map[string]float64, len(keys))
	for i := 0; i < s.Len(); i++ {
		if e := s.Elem(i); !e.IsNA() {
			counts[groupKey(e)]++
		}
	}
	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = counts[k]
	}
	return r.bars(w, "Counts of "+name, "Count", keys, values)
}

// bars renders a bar chart sized so every label gets a slot
func (r *Renderer) bars(w io.Writer, title, yName string, labels []string, values []float64) error {
	if len(values) == 0 {
		return errors.RenderFailed("no values to plot")
	}
	lo, hi := 0.0, 0.0
	bars := make([]gochart.Value, len(values))
	for i, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		bars[i] = gochart.Value{
			Label: label(labels[i]),
			Value: v,
			Style: gochart.Style{FillColor: primary, StrokeColor: primary, StrokeWidth: 1},
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	slot := (r.Width - 120) / len(values)
	barWidth := max(1, slot*3/5)
	graph := gochart.BarChart{
		Title:  label(title),
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:     barWidth,
		BarSpacing:   max(1, slot-barWidth),
		UseBaseValue: lo < 0,
		BaseValue:    0,
		// word wrap measures escaped labels and could split an entity
		XAxis:        gochart.Style{TextWrap: gochart.TextWrapNone},
		YAxis:        gochart.YAxis{Name: label(yName), Range: &gochart.ContinuousRange{Min: lo * 1.1, Max: hi * 1.1}},
		Bars:         bars,
	}
	return graph.Render(gochart.SVG, w)
}
