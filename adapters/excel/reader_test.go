package excel

import (
	"bytes"
	"strings"
	"testing"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heartRows = "63,1,3,145,233,1,0,150,0,2.3,0,0,1,1\n" +
	"37,1,2,130,250,0,1,187,0,3.5,0,0,2,1\n" +
	"41,0,1,130,204,0,0,172,0,1.4,2,0,2,1\n"

func TestReadCSVAppliesDefaultHeaders(t *testing.T) {
	df, err := NewDataReader().ReadCSV([]byte(heartRows))
	require.NoError(t, err)

	assert.Equal(t, dataset.DefaultHeaders, df.Names())
	assert.Equal(t, 3, df.Nrow(), "first row is data, not a header")
	assert.True(t, HasDefaultHeaders(df))
	assert.Equal(t, []float64{63, 37, 41}, df.Col("age").Float())
	assert.Equal(t, series.Float, df.Col("oldpeak").Type())
}

func TestReadCSVKeepsParserNamesForOtherWidths(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "three columns", csv: "1,a,2.5\n2,b,3.5\n"},
		{name: "thirteen columns", csv: "1,2,3,4,5,6,7,8,9,10,11,12,13\n"},
		{name: "fifteen columns", csv: "1,2,3,4,5,6,7,8,9,10,11,12,13,14,15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := NewDataReader().ReadCSV([]byte(tt.csv))
			require.NoError(t, err)

			parserDefault := dataframe.ReadCSV(strings.NewReader(tt.csv), dataframe.HasHeader(false))
			require.NoError(t, parserDefault.Err)

			assert.Equal(t, parserDefault.Names(), df.Names())
			assert.False(t, HasDefaultHeaders(df))
		})
	}
}

func TestReadCSVStripsBOM(t *testing.T) {
	df, err := NewDataReader().ReadCSV(append([]byte{0xEF, 0xBB, 0xBF}, []byte(heartRows)...))
	require.NoError(t, err)
	assert.Equal(t, []float64{63, 37, 41}, df.Col("age").Float())
}

func TestReadCSVFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "whitespace", data: []byte("  \n\n")},
		{name: "ragged rows", data: []byte("1,2,3\n4,5\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataReader().ReadCSV(tt.data)
			require.Error(t, err)
			assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
		})
	}
}

func TestApplyDefaultHeadersOnlyForFourteen(t *testing.T) {
	df := dataframe.ReadCSV(bytes.NewBufferString("1,2\n3,4\n"), dataframe.HasHeader(false))
	require.NoError(t, df.Err)

	out, relabelled, err := ApplyDefaultHeaders(df)
	require.NoError(t, err)
	assert.False(t, relabelled)
	assert.Equal(t, df.Names(), out.Names())
}
