// Package chart renders the explorer's chart kinds to SVG with go-chart.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"sort"
	"strconv"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default canvas, matching a 10x5 inch figure at 100 dpi
const (
	DefaultWidth  = 1000
	DefaultHeight = 500
)

// noStroke disables a series line; go-chart replaces a zero width with its default
const noStroke = -1

var (
	primary   = drawing.ColorFromHex("4c72b0")
	secondary = drawing.ColorFromHex("dd8452")
	muted     = drawing.ColorFromHex("8c8c8c")
)

// Renderer draws charts of a fixed size
type Renderer struct {
	Width  int
	Height int
	log    *internal.Logger
}

// NewRenderer creates a renderer, falling back to the default canvas for
// non-positive sizes
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Width: width, Height: height, log: internal.DefaultLogger.With("chart")}
}

// Render draws spec against df. A scatterplot without a Y column has nothing
// to draw and returns (nil, nil). Every other failure is RENDER_FAILED.
func (r *Renderer) Render(df dataframe.DataFrame, spec dataset.ChartSpec) (*dataset.Chart, error) {
	if spec.X == "" {
		return nil, errors.RenderFailed("no X column selected")
	}
	if _, err := column(df, spec.X); err != nil {
		return nil, err
	}
	if spec.HasY() {
		if _, err := column(df, spec.Y); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	var err error
	switch spec.Kind {
	case dataset.ChartHistogram:
		err = r.histogram(&buf, df, spec)
	case dataset.ChartBoxplot:
		err = r.boxplot(&buf, df, spec)
	case dataset.ChartBarplot:
		err = r.barplot(&buf, df, spec)
	case dataset.ChartScatterplot:
		if !spec.HasY() {
			return nil, nil
		}
		err = r.scatter(&buf, df, spec)
	default:
		return nil, errors.RenderFailed(fmt.Sprintf("unknown chart kind %q", spec.Kind))
	}
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.WithCode(errors.CodeRenderFailed, fmt.Errorf("render %s: %w", spec.Kind, err))
	}

	r.log.Debug("rendered %s of %s (%d bytes)", spec.Kind, spec.X, buf.Len())
	return &dataset.Chart{Kind: spec.Kind, SVG: buf.Bytes()}, nil
}

func (r *Renderer) canvas(title string) gochart.Chart {
	return gochart.Chart{
		Title:  label(title),
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
	}
}

func column(df dataframe.DataFrame, name string) (series.Series, error) {
	s := df.Col(name)
	if s.Err != nil {
		return s, errors.RenderFailed(fmt.Sprintf("unknown column %q", name))
	}
	return s, nil
}

// numeric returns the non-missing values of a numeric column
func numeric(df dataframe.DataFrame, name string) ([]float64, error) {
	s, err := column(df, name)
	if err != nil {
		return nil, err
	}
	if s.Type() != series.Int && s.Type() != series.Float {
		return nil, errors.RenderFailed(fmt.Sprintf("column %q is not numeric", name))
	}
	values := make([]float64, 0, s.Len())
	for _, v := range s.Float() {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values, nil
}

// groupKeys returns the distinct non-missing values of s, in numeric order
// for numeric columns and lexical order otherwise
func groupKeys(s series.Series) []string {
	seen := map[string]bool{}
	keys := []string{}
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		k := groupKey(e)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if s.Type() == series.Int || s.Type() == series.Float {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			return a < b
		})
	} else {
		sort.Strings(keys)
	}
	return keys
}

// groupKey formats a value the way the data table shows it, so 2.3 stays
// "2.3" rather than gota's "2.300000"
func groupKey(e series.Element) string {
	if t := e.Type(); t == series.Int || t == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}

// label escapes text bound for the SVG; go-chart writes it verbatim
func label(s string) string {
	return html.EscapeString(s)
}

// padded widens a degenerate range so go-chart accepts it
func padded(lo, hi float64) *gochart.ContinuousRange {
	if hi-lo == 0 {
		return &gochart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	pad := (hi - lo) * 0.05
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// categoryTicks labels positions 1..n with keys
func categoryTicks(keys []string) []gochart.Tick {
	ticks := make([]gochart.Tick, len(keys))
	for i, k := range keys {
		ticks[i] = gochart.Tick{Value: float64(i + 1), Label: label(k)}
	}
	return ticks
}
