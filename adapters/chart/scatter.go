package chart

import (
	"fmt"
	"io"
	"math"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	gochart "github.com/wcharczuk/go-chart/v2"
)

func (r *Renderer) scatter(w io.Writer, df dataframe.DataFrame, spec dataset.ChartSpec) error {
	if _, err := numeric(df, spec.X); err != nil {
		return err
	}
	if _, err := numeric(df, spec.Y); err != nil {
		return err
	}

	xcol, ycol := df.Col(spec.X).Float(), df.Col(spec.Y).Float()
	xs := make([]float64, 0, len(xcol))
	ys := make([]float64, 0, len(ycol))
	for i := range xcol {
		if math.IsNaN(xcol[i]) || math.IsNaN(ycol[i]) {
			continue
		}
		xs = append(xs, xcol[i])
		ys = append(ys, ycol[i])
	}
	if len(xs) == 0 {
		return errors.RenderFailed(fmt.Sprintf("no rows with both %s and %s", spec.X, spec.Y))
	}

	graph := r.canvas(fmt.Sprintf("%s vs %s", spec.Y, spec.X))
	graph.XAxis = gochart.XAxis{Name: label(spec.X), Range: padded(bounds(xs))}
	graph.YAxis = gochart.YAxis{Name: label(spec.Y), Range: padded(bounds(ys))}
	graph.Series = []gochart.Series{
		gochart.ContinuousSeries{
			Style: gochart.Style{
				StrokeWidth: noStroke,
				DotWidth:    3,
				DotColor:    primary.WithAlpha(180),
			},
			XValues: xs,
			YValues: ys,
		},
	}
	return graph.Render(gochart.SVG, w)
}
