package testkit

import (
	"strconv"
	"testing"

	"riskexplorer/adapters/excel"
	"riskexplorer/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartGenerator_Deterministic(t *testing.T) {
	a := NewHeartGenerator(DefaultHeartConfig()).CSV()
	b := NewHeartGenerator(DefaultHeartConfig()).CSV()
	assert.Equal(t, a, b)

	other := DefaultHeartConfig()
	other.Seed = 7
	assert.NotEqual(t, a, NewHeartGenerator(other).CSV())
}

func TestHeartGenerator_Shape(t *testing.T) {
	config := HeartGeneratorConfig{Rows: 500, Seed: 1, Header: true}
	records := NewHeartGenerator(config).Records()

	require.Len(t, records, 501)
	assert.Equal(t, dataset.DefaultHeaders, records[0])

	limits := map[int][2]float64{
		0:  {29, 77},
		1:  {0, 1},
		2:  {0, 3},
		3:  {94, 200},
		4:  {126, 564},
		7:  {71, 202},
		9:  {0, 6.2},
		11: {0, 4},
		12: {0, 3},
		13: {0, 1},
	}
	targets := 0
	for _, row := range records[1:] {
		require.Len(t, row, 14)
		for col, bounds := range limits {
			v, err := strconv.ParseFloat(row[col], 64)
			require.NoError(t, err, "column %d value %q", col, row[col])
			assert.GreaterOrEqual(t, v, bounds[0], dataset.DefaultHeaders[col])
			assert.LessOrEqual(t, v, bounds[1], dataset.DefaultHeaders[col])
		}
		if row[13] == "1" {
			targets++
		}
	}
	assert.Greater(t, targets, 50, "both diagnoses should be present")
	assert.Less(t, targets, 450, "both diagnoses should be present")
}

func TestHeartGenerator_MissingValues(t *testing.T) {
	config := HeartGeneratorConfig{Rows: 200, Seed: 3, MissingRate: 0.2}
	records := NewHeartGenerator(config).Records()

	missing := 0
	for _, row := range records {
		for col, cell := range row {
			if cell == MissingValue {
				assert.Contains(t, []int{11, 12}, col)
				missing++
			}
		}
	}
	assert.Greater(t, missing, 0)
}

func TestHeartCSV_ReadsWithDefaultHeaders(t *testing.T) {
	df, err := excel.NewDataReader().ReadCSV(HeartCSV(40))
	require.NoError(t, err)
	assert.Equal(t, 40, df.Nrow())
	assert.Equal(t, dataset.DefaultHeaders, df.Names())
	assert.True(t, excel.HasDefaultHeaders(df))
}
