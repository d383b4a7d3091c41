package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Form key prefixes, followed by the column name
const (
	MinPrefix  = "min:"
	MaxPrefix  = "max:"
	EqPrefix   = "eq:"
	InPrefix   = "in:"
	SeenPrefix = "seen:"
)

// Selection is the user's choice for one widget. Which fields matter
// depends on the widget kind.
type Selection struct {
	Lo, Hi *float64

	Value    string
	HasValue bool

	Values []string
	// ValuesSet distinguishes "nothing selected" from "never shown"
	ValuesSet bool
}

// Selections maps column names to selections
type Selections map[string]Selection

// ParseSelections reads filter selections from submitted form values
func ParseSelections(form url.Values) Selections {
	sels := Selections{}
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		prefix, name := splitKey(key)
		if name == "" {
			continue
		}
		sel := sels[name]
		switch prefix {
		case MinPrefix:
			if v, ok := parseFloat(values[0]); ok {
				sel.Lo = &v
			}
		case MaxPrefix:
			if v, ok := parseFloat(values[0]); ok {
				sel.Hi = &v
			}
		case EqPrefix:
			sel.Value = values[0]
			sel.HasValue = true
		case InPrefix:
			sel.Values = append(sel.Values, values...)
			sel.ValuesSet = true
		case SeenPrefix:
			sel.ValuesSet = true
		default:
			continue
		}
		sels[name] = sel
	}
	return sels
}

// Encode writes the effective selection of every widget back to form keys
func Encode(widgets []Widget, selections Selections) url.Values {
	form := url.Values{}
	for _, w := range widgets {
		sel, given := selections[w.Name]
		eff := w.Effective(sel, given)
		switch w.Kind {
		case Numeric:
			form.Set(MinPrefix+w.Name, strconv.FormatFloat(*eff.Lo, 'f', -1, 64))
			form.Set(MaxPrefix+w.Name, strconv.FormatFloat(*eff.Hi, 'f', -1, 64))
		case BinaryCategory:
			if eff.HasValue {
				form.Set(EqPrefix+w.Name, eff.Value)
			}
		default:
			form.Set(SeenPrefix+w.Name, "1")
			for _, v := range eff.Values {
				form.Add(InPrefix+w.Name, v)
			}
		}
	}
	return form
}

// Range is a convenience constructor for numeric selections
func Range(lo, hi float64) Selection {
	return Selection{Lo: &lo, Hi: &hi}
}

// Equal is a convenience constructor for single choice selections
func Equal(value string) Selection {
	return Selection{Value: value, HasValue: true}
}

// In is a convenience constructor for multi choice selections
func In(values ...string) Selection {
	return Selection{Values: values, ValuesSet: true}
}

func splitKey(key string) (string, string) {
	for _, prefix := range []string{MinPrefix, MaxPrefix, EqPrefix, InPrefix, SeenPrefix} {
		if strings.HasPrefix(key, prefix) {
			return prefix, key[len(prefix):]
		}
	}
	return "", ""
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
