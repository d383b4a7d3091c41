package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// NumericSummary is the describe-style summary of a numeric column
type NumericSummary struct {
	Mean     float64
	StdDev   float64
	Min      float64
	Q25      float64
	Median   float64
	Q75      float64
	Max      float64
	Skewness float64
	Outliers int
}

// SummarizeNumeric computes the summary of non-missing values
func SummarizeNumeric(data []float64) (NumericSummary, error) {
	var summary NumericSummary

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	// Sample standard deviation; a single value has none
	stdDev := math.NaN()
	if len(data) > 1 {
		if stdDev, err = stats.StandardDeviationSample(data); err != nil {
			return summary, err
		}
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	q25, q75 := Quantile(sorted, 0.25), Quantile(sorted, 0.75)

	summary = NumericSummary{
		Mean:     mean,
		StdDev:   stdDev,
		Min:      min,
		Q25:      q25,
		Median:   median,
		Q75:      q75,
		Max:      max,
		Skewness: calculateSkewness(data, mean, stdDev),
		Outliers: detectOutliers(data, q25, q75),
	}
	return summary, nil
}

// Quantile interpolates linearly between the closest ranks of sorted data,
// the way pandas' describe does. gonum interpolates the empirical CDF at
// rank n*p, so p is shifted to land on rank (n-1)*p+1.
func Quantile(sorted []float64, p float64) float64 {
	n := float64(len(sorted))
	if n == 0 {
		return math.NaN()
	}
	return stat.Quantile(((n-1)*p+1)/n, stat.LinInterp, sorted, nil)
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations * n / ((n - 1) * (n - 2))
}

// detectOutliers counts values beyond 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
