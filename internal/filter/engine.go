// Package filter derives per-column filter widgets from a table and narrows
// the table to the rows accepted by every widget's selection.
package filter

import (
	"math"
	"sort"
	"strings"

	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind classifies a column for widget selection
type Kind int

const (
	Numeric Kind = iota
	BinaryCategory
	GenericCategory
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case BinaryCategory:
		return "binary-categorical"
	default:
		return "generic-categorical"
	}
}

// Column is the classification of one table column
type Column struct {
	Index int
	Name  string
	Kind  Kind
}

// Widget is the selector offered for one column. Ranges and choices always
// come from the full table, never from a partially filtered one.
type Widget struct {
	Column
	Label   string
	Min     float64
	Max     float64
	Integer bool
	Choices []string
}

// IsSexColumn reports whether a column name identifies the sex/gender column
func IsSexColumn(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sex", "gender":
		return true
	}
	return false
}

// IsNumeric reports whether a gota series holds numbers
func IsNumeric(s series.Series) bool {
	t := s.Type()
	return t == series.Int || t == series.Float
}

// Classify assigns a kind to every column. Numeric columns win over the sex
// name check, so a 0/1 coded sex column is filtered by range.
func Classify(df dataframe.DataFrame) []Column {
	names := df.Names()
	columns := make([]Column, len(names))
	for i, name := range names {
		kind := GenericCategory
		switch {
		case IsNumeric(df.Col(name)):
			kind = Numeric
		case IsSexColumn(name):
			kind = BinaryCategory
		}
		columns[i] = Column{Index: i, Name: name, Kind: kind}
	}
	return columns
}

// Plan builds one widget per column. Numeric columns with no non-missing
// value have no defined range and get no widget.
func Plan(df dataframe.DataFrame) []Widget {
	columns := Classify(df)
	widgets := make([]Widget, 0, len(columns))
	for _, col := range columns {
		s := df.Col(col.Name)
		w := Widget{Column: col, Label: col.Name}
		switch col.Kind {
		case Numeric:
			lo, hi, ok := numericRange(s)
			if !ok {
				continue
			}
			w.Min, w.Max = lo, hi
			w.Integer = s.Type() == series.Int
		case BinaryCategory:
			w.Label = "Sex (0 = Female, 1 = Male)"
			w.Choices = distinctValues(s)
		default:
			w.Choices = distinctValues(s)
		}
		widgets = append(widgets, w)
	}
	return widgets
}

// Apply narrows df column by column. A widget whose selection accepts
// everything adds no predicate, so the default selections return df unchanged.
func Apply(df dataframe.DataFrame, widgets []Widget, selections Selections) (dataframe.DataFrame, error) {
	current := df
	for _, w := range widgets {
		if current.Nrow() == 0 {
			break
		}
		sel, given := selections[w.Name]
		pred, active := w.Predicate(w.Effective(sel, given))
		if !active {
			continue
		}
		current = current.Filter(dataframe.F{
			Colname:    w.Name,
			Comparator: series.CompFunc,
			Comparando: pred,
		})
		if current.Err != nil {
			return dataframe.DataFrame{}, errors.Wrapf(current.Err, "filter column %q", w.Name)
		}
	}
	return current, nil
}

// Effective resolves a submitted selection against the widget's domain:
// missing values take the default, bounds are clamped into [Min, Max] and
// choices outside the observed set are dropped.
func (w Widget) Effective(sel Selection, given bool) Selection {
	switch w.Kind {
	case Numeric:
		lo, hi := w.Min, w.Max
		if given && sel.Lo != nil {
			lo = clamp(*sel.Lo, w.Min, w.Max)
		}
		if given && sel.Hi != nil {
			hi = clamp(*sel.Hi, w.Min, w.Max)
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return Selection{Lo: &lo, Hi: &hi}
	case BinaryCategory:
		if given && sel.HasValue && contains(w.Choices, sel.Value) {
			return Selection{Value: sel.Value, HasValue: true}
		}
		if len(w.Choices) == 0 {
			return Selection{}
		}
		return Selection{Value: w.Choices[0], HasValue: true}
	default:
		if !given || !sel.ValuesSet {
			return Selection{Values: append([]string(nil), w.Choices...), ValuesSet: true}
		}
		chosen := make(map[string]bool, len(sel.Values))
		for _, v := range sel.Values {
			chosen[v] = true
		}
		values := make([]string, 0, len(sel.Values))
		for _, c := range w.Choices {
			if chosen[c] {
				values = append(values, c)
			}
		}
		return Selection{Values: values, ValuesSet: true}
	}
}

// Predicate returns the row test for an effective selection. The boolean is
// false when the selection removes nothing: a full numeric range, a full
// choice set, or an empty multi choice (deselecting everything leaves the
// column unfiltered).
func (w Widget) Predicate(sel Selection) (func(series.Element) bool, bool) {
	switch w.Kind {
	case Numeric:
		if sel.Lo == nil || sel.Hi == nil {
			return nil, false
		}
		lo, hi := *sel.Lo, *sel.Hi
		if lo <= w.Min && hi >= w.Max {
			return nil, false
		}
		return func(e series.Element) bool {
			if e.IsNA() {
				return false
			}
			v := e.Float()
			return !math.IsNaN(v) && v >= lo && v <= hi
		}, true
	case BinaryCategory:
		if !sel.HasValue {
			return nil, false
		}
		want := sel.Value
		return func(e series.Element) bool {
			return !e.IsNA() && e.String() == want
		}, true
	default:
		if len(sel.Values) == 0 || len(sel.Values) >= len(w.Choices) {
			return nil, false
		}
		set := make(map[string]bool, len(sel.Values))
		for _, v := range sel.Values {
			set[v] = true
		}
		return func(e series.Element) bool {
			return !e.IsNA() && set[e.String()]
		}, true
	}
}

// Step is the input step for numeric widgets
func (w Widget) Step() string {
	if w.Integer {
		return "1"
	}
	return "any"
}

func numericRange(s series.Series) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, v := range s.Float() {
		if math.IsNaN(v) {
			continue
		}
		found = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, found
}

func distinctValues(s series.Series) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
