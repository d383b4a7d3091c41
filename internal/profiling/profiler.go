// Package profiling summarizes table columns for the dataset overview.
package profiling

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ColumnSummary describes one column. Numeric is set for number columns;
// the categorical fields are filled otherwise.
type ColumnSummary struct {
	Name    string
	Type    string
	Count   int
	Missing int
	Numeric *NumericSummary

	Unique int
	Top    string
	Freq   int
}

// Describe summarizes every column of df in column order
func Describe(df dataframe.DataFrame) []ColumnSummary {
	names := df.Names()
	summaries := make([]ColumnSummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, describeColumn(name, df.Col(name)))
	}
	return summaries
}

func describeColumn(name string, s series.Series) ColumnSummary {
	summary := ColumnSummary{Name: name, Type: string(s.Type())}

	if s.Type() == series.Int || s.Type() == series.Float {
		values := make([]float64, 0, s.Len())
		for _, v := range s.Float() {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		summary.Count = len(values)
		summary.Missing = s.Len() - len(values)
		if num, err := SummarizeNumeric(values); err == nil {
			summary.Numeric = &num
		}
		return summary
	}

	freq := map[string]int{}
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			summary.Missing++
			continue
		}
		summary.Count++
		freq[e.String()]++
	}
	summary.Unique = len(freq)

	// ties resolve to the lexically smallest value
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if freq[k] > summary.Freq {
			summary.Top, summary.Freq = k, freq[k]
		}
	}
	return summary
}
