package chart

import (
	"fmt"
	"io"
	"math"
	"sort"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"
	"riskexplorer/internal/profiling"

	"github.com/go-gota/gota/dataframe"
	gochart "github.com/wcharczuk/go-chart/v2"
)

const boxHalfWidth = 0.3

type box struct {
	q1, median, q3 float64
	lower, upper   float64
	outliers       []float64
}

// summarize computes quartiles with 1.5 IQR whiskers drawn to the furthest
// point inside the fences
func summarize(values []float64) box {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	b := box{
		q1:     profiling.Quantile(sorted, 0.25),
		median: profiling.Quantile(sorted, 0.5),
		q3:     profiling.Quantile(sorted, 0.75),
	}
	iqr := b.q3 - b.q1
	loFence, hiFence := b.q1-1.5*iqr, b.q3+1.5*iqr
	b.lower, b.upper = b.q1, b.q3
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			b.outliers = append(b.outliers, v)
			continue
		}
		b.lower = math.Min(b.lower, v)
		b.upper = math.Max(b.upper, v)
	}
	return b
}

func (b box) series(x float64) []gochart.Series {
	line := gochart.Style{StrokeColor: primary, StrokeWidth: 1.5}
	l, r := x-boxHalfWidth, x+boxHalfWidth
	end := boxHalfWidth / 2
	out := []gochart.Series{
		gochart.ContinuousSeries{
			Style:   gochart.Style{StrokeColor: primary, StrokeWidth: 1.5},
			XValues: []float64{l, r, r, l, l},
			YValues: []float64{b.q1, b.q1, b.q3, b.q3, b.q1},
		},
		gochart.ContinuousSeries{Style: gochart.Style{StrokeColor: secondary, StrokeWidth: 2}, XValues: []float64{l, r}, YValues: []float64{b.median, b.median}},
		gochart.ContinuousSeries{Style: line, XValues: []float64{x, x}, YValues: []float64{b.q1, b.lower}},
		gochart.ContinuousSeries{Style: line, XValues: []float64{x, x}, YValues: []float64{b.q3, b.upper}},
		gochart.ContinuousSeries{Style: line, XValues: []float64{x - end, x + end}, YValues: []float64{b.lower, b.lower}},
		gochart.ContinuousSeries{Style: line, XValues: []float64{x - end, x + end}, YValues: []float64{b.upper, b.upper}},
	}
	if len(b.outliers) > 0 {
		xs := make([]float64, len(b.outliers))
		for i := range xs {
			xs[i] = x
		}
		out = append(out, gochart.ContinuousSeries{
			Style:   gochart.Style{StrokeWidth: noStroke, DotWidth: 3, DotColor: muted},
			XValues: xs,
			YValues: b.outliers,
		})
	}
	return out
}

// boxplot draws the distribution of numeric X, one box per distinct Y value
// when Y is set
func (r *Renderer) boxplot(w io.Writer, df dataframe.DataFrame, spec dataset.ChartSpec) error {
	values, err := numeric(df, spec.X)
	if err != nil {
		return err
	}

	keys := []string{spec.X}
	groups := map[string][]float64{spec.X: values}
	if spec.HasY() {
		ys, err := column(df, spec.Y)
		if err != nil {
			return err
		}
		xs := df.Col(spec.X)
		keys = groupKeys(ys)
		groups = make(map[string][]float64, len(keys))
		for i := 0; i < df.Nrow(); i++ {
			x, y := xs.Elem(i), ys.Elem(i)
			if x.IsNA() || y.IsNA() || math.IsNaN(x.Float()) {
				continue
			}
			k := groupKey(y)
			groups[k] = append(groups[k], x.Float())
		}
	}

	var plotted []gochart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, key := range keys {
		vals := groups[key]
		if len(vals) == 0 {
			continue
		}
		vlo, vhi := bounds(vals)
		lo, hi = math.Min(lo, vlo), math.Max(hi, vhi)
		plotted = append(plotted, summarize(vals).series(float64(i+1))...)
	}
	if len(plotted) == 0 {
		return errors.RenderFailed(fmt.Sprintf("column %q has no values to plot", spec.X))
	}

	title := "Boxplot of " + spec.X
	if spec.HasY() {
		title += " by " + spec.Y
	}
	graph := r.canvas(title)
	graph.XAxis = gochart.XAxis{
		Name:  label(spec.Y),
		Range: &gochart.ContinuousRange{Min: 0.5, Max: float64(len(keys)) + 0.5},
		Ticks: categoryTicks(keys),
	}
	graph.YAxis = gochart.YAxis{Name: label(spec.X), Range: padded(lo, hi)}
	graph.Series = plotted
	return graph.Render(gochart.SVG, w)
}
