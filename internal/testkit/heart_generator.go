package testkit

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"

	"riskexplorer/domain/dataset"
)

// MissingValue marks a missing cell; the CSV reader treats it as NA
const MissingValue = "NaN"

// HeartGeneratorConfig configures the synthetic heart disease table
type HeartGeneratorConfig struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`
	// Header writes the 14 column names as the first line
	Header bool `json:"header"`
	// MissingRate blanks ca and thal with this probability
	MissingRate float64 `json:"missing_rate"`
}

// DefaultHeartConfig matches the size of the UCI Cleveland table
func DefaultHeartConfig() HeartGeneratorConfig {
	return HeartGeneratorConfig{
		Rows: 303,
		Seed: 42,
	}
}

// HeartGenerator produces rows shaped like the UCI heart disease dataset.
// Output is deterministic for a given seed.
type HeartGenerator struct {
	config HeartGeneratorConfig
	rng    *rand.Rand
}

// NewHeartGenerator creates a generator
func NewHeartGenerator(config HeartGeneratorConfig) *HeartGenerator {
	return &HeartGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records generates the table, header first when configured
func (g *HeartGenerator) Records() [][]string {
	records := make([][]string, 0, g.config.Rows+1)
	if g.config.Header {
		records = append(records, append([]string(nil), dataset.DefaultHeaders...))
	}
	for i := 0; i < g.config.Rows; i++ {
		records = append(records, g.patient())
	}
	return records
}

// WriteCSV writes the generated table to w
func (g *HeartGenerator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(g.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// CSV returns the generated table as CSV bytes
func (g *HeartGenerator) CSV() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_ = g.WriteCSV(&buf)
	return buf.Bytes()
}

// HeartCSV is shorthand for a headerless table of n rows with the default seed
func HeartCSV(n int) []byte {
	config := DefaultHeartConfig()
	config.Rows = n
	return NewHeartGenerator(config).CSV()
}

func (g *HeartGenerator) patient() []string {
	age := g.normalInt(54, 9, 29, 77)
	sex := g.bernoulli(0.68)
	cp := g.choice(0.47, 0.17, 0.28, 0.08)
	trestbps := g.normalInt(131, 17, 94, 200)
	chol := g.normalInt(246, 51, 126, 564)
	fbs := g.bernoulli(0.15)
	restecg := g.choice(0.48, 0.50, 0.02)
	// max heart rate falls with age
	thalach := g.normalInt(210-float64(age)+rangeShift(cp), 20, 71, 202)
	exang := g.bernoulli(0.33)
	oldpeak := math.Min(math.Round(g.rng.ExpFloat64()*10)/10, 6.2)
	slope := g.choice(0.07, 0.46, 0.47)
	ca := g.choice(0.58, 0.22, 0.12, 0.07, 0.01)
	thal := g.choice(0.01, 0.06, 0.55, 0.38)

	// Add signal: target follows the usual risk markers
	score := 0.8 + 0.9*float64(min(cp, 1)) - 1.2*float64(exang) - 0.7*oldpeak +
		0.03*float64(thalach-150) - 0.8*float64(ca) - 0.4*float64(sex)
	target := 0
	if g.rng.Float64() < 1/(1+math.Exp(-score)) {
		target = 1
	}

	row := []string{
		itoa(age), itoa(sex), itoa(cp), itoa(trestbps), itoa(chol), itoa(fbs), itoa(restecg),
		itoa(thalach), itoa(exang), strconv.FormatFloat(oldpeak, 'f', 1, 64), itoa(slope),
		itoa(ca), itoa(thal), itoa(target),
	}
	if g.config.MissingRate > 0 {
		for _, col := range []int{11, 12} {
			if g.rng.Float64() < g.config.MissingRate {
				row[col] = MissingValue
			}
		}
	}
	return row
}

// rangeShift nudges heart rate up for atypical chest pain
func rangeShift(cp int) float64 {
	if cp > 0 {
		return 8
	}
	return 0
}

func (g *HeartGenerator) normalInt(mean, stddev float64, lo, hi int) int {
	v := int(math.Round(mean + g.rng.NormFloat64()*stddev))
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (g *HeartGenerator) bernoulli(p float64) int {
	if g.rng.Float64() < p {
		return 1
	}
	return 0
}

// choice picks an index with the given weights
func (g *HeartGenerator) choice(weights ...float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
