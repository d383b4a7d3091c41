package excel

import (
	"bytes"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	df, err := NewDataReader().ReadCSV([]byte(heartRows))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, df))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, df.Names(), rows[0])
	assert.Equal(t, "63", rows[1][0])
	assert.Equal(t, "2.3", rows[1][9])
	assert.Equal(t, "41", rows[3][0])
}

func TestWriteXLSXHeaderOnly(t *testing.T) {
	df, err := NewDataReader().ReadCSV([]byte("1,x\n2,y\n"))
	require.NoError(t, err)
	empty := df.Subset([]int{})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, empty))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, df.Names(), rows[0])
}

func TestWriteCSVKeepsPrecision(t *testing.T) {
	df, err := NewDataReader().ReadCSV([]byte("0.123456789,1,a\n0.0000001,2,NaN\nNaN,3,c\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, df))
	names := df.Names()
	assert.Equal(t, names[0]+","+names[1]+","+names[2]+"\n"+
		"0.123456789,1,a\n"+
		"0.0000001,2,\n"+
		",3,c\n", buf.String())

	back := dataframe.ReadCSV(&buf)
	require.NoError(t, back.Err)
	assert.Equal(t, df.Col(names[0]).Float()[:2], back.Col(names[0]).Float()[:2])
	assert.True(t, back.Col(names[0]).Elem(2).IsNA())
}
