package chart

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	kdePoints = 200
	maxBins   = 500
)

var kernel = distuv.Normal{Mu: 0, Sigma: 1}

// binEdges picks equal-width bins the way numpy's "auto" estimator does:
// the smaller of the Sturges and Freedman-Diaconis widths, Sturges alone
// when the IQR is zero.
func binEdges(values []float64) []float64 {
	lo, hi := bounds(values)
	if hi == lo {
		return []float64{lo - 0.5, hi + 0.5}
	}
	n := float64(len(values))
	span := hi - lo

	width := span / (math.Log2(n) + 1)
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	if fd := 2 * iqr * math.Pow(n, -1.0/3.0); fd > 0 && fd < width {
		width = fd
	}

	bins := int(math.Ceil(span / width))
	if bins < 1 {
		bins = 1
	}
	if bins > maxBins {
		bins = maxBins
	}
	edges := make([]float64, bins+1)
	step := span / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi
	return edges
}

// binCounts counts values per bin; the last bin is closed on the right
func binCounts(values, edges []float64) []float64 {
	bins := len(edges) - 1
	counts := make([]float64, bins)
	lo, width := edges[0], (edges[bins]-edges[0])/float64(bins)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	return counts
}

// stepOutline turns bins into a closed step polyline starting and ending on zero
func stepOutline(edges, counts []float64) ([]float64, []float64) {
	xs := make([]float64, 0, 2*len(counts)+2)
	ys := make([]float64, 0, 2*len(counts)+2)
	xs, ys = append(xs, edges[0]), append(ys, 0)
	for i, c := range counts {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, c, c)
	}
	xs, ys = append(xs, edges[len(edges)-1]), append(ys, 0)
	return xs, ys
}

// density evaluates a Gaussian KDE with Scott's bandwidth over [lo, hi],
// scaled to expected counts per bin of the given width. It reports false
// when the bandwidth is undefined.
func density(values []float64, lo, hi, binWidth float64) ([]float64, []float64, bool) {
	n := float64(len(values))
	if n < 2 || hi <= lo {
		return nil, nil, false
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, nil, false
	}
	bw := sd * math.Pow(n, -1.0/5.0)
	scale := binWidth / bw

	xs := make([]float64, kdePoints)
	ys := make([]float64, kdePoints)
	step := (hi - lo) / float64(kdePoints-1)
	for i := range xs {
		x := lo + float64(i)*step
		sum := 0.0
		for _, v := range values {
			sum += kernel.Prob((x - v) / bw)
		}
		xs[i] = x
		ys[i] = sum * scale
	}
	return xs, ys, true
}
