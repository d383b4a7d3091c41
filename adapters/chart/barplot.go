package chart

import (
	"fmt"
	"io"
	"math"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
)

// barplot draws the mean of numeric Y for each distinct X value
func (r *Renderer) barplot(w io.Writer, df dataframe.DataFrame, spec dataset.ChartSpec) error {
	if !spec.HasY() {
		return errors.RenderFailed("barplot needs a Y column")
	}
	xs, err := column(df, spec.X)
	if err != nil {
		return err
	}
	ys, err := column(df, spec.Y)
	if err != nil {
		return err
	}
	if ys.Type() != series.Int && ys.Type() != series.Float {
		return errors.RenderFailed(fmt.Sprintf("column %q is not numeric", spec.Y))
	}

	groups := map[string]stats.Float64Data{}
	for i := 0; i < df.Nrow(); i++ {
		x, y := xs.Elem(i), ys.Elem(i)
		if x.IsNA() || y.IsNA() || math.IsNaN(y.Float()) {
			continue
		}
		k := groupKey(x)
		groups[k] = append(groups[k], y.Float())
	}

	var labels []string
	var means []float64
	for _, key := range groupKeys(xs) {
		mean, err := stats.Mean(groups[key])
		if err != nil {
			continue
		}
		labels = append(labels, key)
		means = append(means, mean)
	}
	if len(means) == 0 {
		return errors.RenderFailed(fmt.Sprintf("no %s values to average", spec.Y))
	}
	return r.bars(w, fmt.Sprintf("Mean %s by %s", spec.Y, spec.X), spec.Y, labels, means)
}
