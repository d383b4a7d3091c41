package chart

import (
	"strings"
	"testing"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"
	"riskexplorer/internal/profiling"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `age,sex,chol,thal
63,1,233,fixed
37,1,250,normal
41,0,204,normal
56,1,236,reversable
57,0,354,normal
50,1,199,fixed
60,0,300,reversable
44,1,263,normal
`

func frame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(sample))
	require.NoError(t, df.Err)
	return df
}

func TestRenderKinds(t *testing.T) {
	df := frame(t)
	r := NewRenderer(0, 0)

	tests := []struct {
		name string
		spec dataset.ChartSpec
	}{
		{"histogram", dataset.ChartSpec{X: "age", Kind: dataset.ChartHistogram}},
		{"histogram ignores y", dataset.ChartSpec{X: "age", Y: "chol", Kind: dataset.ChartHistogram}},
		{"categorical histogram", dataset.ChartSpec{X: "thal", Kind: dataset.ChartHistogram}},
		{"boxplot", dataset.ChartSpec{X: "chol", Kind: dataset.ChartBoxplot}},
		{"grouped boxplot", dataset.ChartSpec{X: "chol", Y: "sex", Kind: dataset.ChartBoxplot}},
		{"barplot", dataset.ChartSpec{X: "thal", Y: "age", Kind: dataset.ChartBarplot}},
		{"scatterplot", dataset.ChartSpec{X: "age", Y: "chol", Kind: dataset.ChartScatterplot}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := r.Render(df, tt.spec)
			require.NoError(t, err)
			require.NotNil(t, chart)
			assert.Equal(t, tt.spec.Kind, chart.Kind)
			assert.Contains(t, string(chart.SVG), "<svg")
		})
	}
}

func TestScatterWithoutYDrawsNothing(t *testing.T) {
	chart, err := NewRenderer(0, 0).Render(frame(t), dataset.ChartSpec{X: "age", Kind: dataset.ChartScatterplot})
	assert.NoError(t, err)
	assert.Nil(t, chart)
}

func TestRenderFailures(t *testing.T) {
	df := frame(t)
	r := NewRenderer(0, 0)

	tests := []struct {
		name string
		spec dataset.ChartSpec
	}{
		{"barplot without y", dataset.ChartSpec{X: "thal", Kind: dataset.ChartBarplot}},
		{"barplot on text y", dataset.ChartSpec{X: "age", Y: "thal", Kind: dataset.ChartBarplot}},
		{"boxplot on text x", dataset.ChartSpec{X: "thal", Kind: dataset.ChartBoxplot}},
		{"scatter on text", dataset.ChartSpec{X: "thal", Y: "age", Kind: dataset.ChartScatterplot}},
		{"unknown column", dataset.ChartSpec{X: "bogus", Kind: dataset.ChartHistogram}},
		{"no x", dataset.ChartSpec{Kind: dataset.ChartHistogram}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := r.Render(df, tt.spec)
			require.Error(t, err)
			assert.Nil(t, chart)
			assert.Equal(t, errors.CodeRenderFailed, errors.GetCode(err))
		})
	}
}

func TestRenderEmptyTable(t *testing.T) {
	empty := frame(t).Subset([]int{})
	_, err := NewRenderer(0, 0).Render(empty, dataset.ChartSpec{X: "age", Kind: dataset.ChartHistogram})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailed, errors.GetCode(err))
}

func TestBinEdges(t *testing.T) {
	edges := binEdges([]float64{5, 5, 5})
	assert.Equal(t, []float64{4.5, 5.5}, edges)

	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	edges = binEdges(values)
	assert.Equal(t, 0.0, edges[0])
	assert.Equal(t, 99.0, edges[len(edges)-1])
	assert.GreaterOrEqual(t, len(edges)-1, 8, "at least the Sturges bin count")

	counts := binCounts(values, edges)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 100.0, total)
}

func TestDensityIntegratesToCount(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	xs, ys, ok := density(values, -10, 16, 1)
	require.True(t, ok)

	area := 0.0
	for i := 1; i < len(xs); i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	assert.InDelta(t, float64(len(values)), area, 0.1)

	_, _, ok = density([]float64{2, 2}, 0, 4, 1)
	assert.False(t, ok, "zero variance has no bandwidth")
}

func TestSummarizeBox(t *testing.T) {
	b := summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	assert.Equal(t, []float64{100}, b.outliers)
	assert.Equal(t, 8.0, b.upper)
	assert.Equal(t, 1.0, b.lower)
	assert.LessOrEqual(t, b.q1, b.median)
	assert.LessOrEqual(t, b.median, b.q3)
}

func TestChartTextIsEscaped(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("id,note\n1,<script>alert(1)</script>\n2,ok\n"))
	require.NoError(t, df.Err)
	r := NewRenderer(0, 0)

	for _, spec := range []dataset.ChartSpec{
		{X: "note", Kind: dataset.ChartHistogram},
		{X: "note", Y: "id", Kind: dataset.ChartBarplot},
		{X: "id", Y: "note", Kind: dataset.ChartBoxplot},
	} {
		t.Run(string(spec.Kind), func(t *testing.T) {
			chart, err := r.Render(df, spec)
			require.NoError(t, err)
			svg := string(chart.SVG)
			assert.NotContains(t, svg, "<script>")
			assert.Contains(t, svg, "&lt;script&gt;alert(1)&lt;/script&gt;")
		})
	}
}

func TestGroupKeysFormatNumbers(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("oldpeak,age\n2.3,63\n1.5,37\n2.3,41\nNaN,56\n10,57\n"))
	require.NoError(t, df.Err)

	assert.Equal(t, []string{"1.5", "2.3", "10"}, groupKeys(df.Col("oldpeak")))
	assert.Equal(t, []string{"37", "41", "56", "57", "63"}, groupKeys(df.Col("age")))

	chart, err := NewRenderer(0, 0).Render(df, dataset.ChartSpec{X: "oldpeak", Y: "age", Kind: dataset.ChartBarplot})
	require.NoError(t, err)
	assert.Contains(t, string(chart.SVG), ">2.3<")
	assert.NotContains(t, string(chart.SVG), "2.300000")
}

func TestBoxQuartilesMatchSummary(t *testing.T) {
	values := []float64{233, 250, 204, 236, 354, 199, 300, 263}
	summary, err := profiling.SummarizeNumeric(values)
	require.NoError(t, err)

	b := summarize(values)
	assert.InDelta(t, summary.Q25, b.q1, 1e-9)
	assert.InDelta(t, summary.Median, b.median, 1e-9)
	assert.InDelta(t, summary.Q75, b.q3, 1e-9)
}
