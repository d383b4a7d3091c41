package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet the filtered table is written to
const SheetName = "Sheet1"

// WriteXLSX writes df (header row first) to a single-sheet workbook.
// Numeric cells are stored as numbers and missing values as empty cells.
func WriteXLSX(w io.Writer, df dataframe.DataFrame) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return errors.Wrap(err, "open xlsx stream writer")
	}

	names := df.Names()
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return errors.Wrap(err, "write xlsx header")
	}

	columns := make([]series.Series, len(names))
	for i, name := range names {
		columns[i] = df.Col(name)
	}

	for row := 0; row < df.Nrow(); row++ {
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			values[i] = cellValue(col, row)
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return errors.Wrap(err, "compute xlsx cell name")
		}
		if err := sw.SetRow(cell, values); err != nil {
			return errors.Wrapf(err, "write xlsx row %d", row+1)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flush xlsx stream")
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write xlsx workbook")
	}
	return nil
}

func cellValue(col series.Series, row int) interface{} {
	elem := col.Elem(row)
	if elem.IsNA() {
		return nil
	}
	switch col.Type() {
	case series.Int:
		if v, err := elem.Int(); err == nil {
			return v
		}
		return elem.String()
	case series.Float:
		v := elem.Float()
		if math.IsInf(v, 0) {
			return fmt.Sprint(v)
		}
		return v
	case series.Bool:
		if v, err := elem.Bool(); err == nil {
			return v
		}
		return elem.String()
	default:
		return elem.String()
	}
}

// WriteCSV writes df (header row first) as CSV. Floats keep full precision
// and missing values are written as empty fields.
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	names := df.Names()
	columns := make([]series.Series, len(names))
	for i, name := range names {
		columns[i] = df.Col(name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return errors.Wrap(err, "write CSV header")
	}
	record := make([]string, len(columns))
	for row := 0; row < df.Nrow(); row++ {
		for i, col := range columns {
			record[i] = csvField(col, row)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write CSV row %d", row+1)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flush CSV")
	}
	return nil
}

func csvField(col series.Series, row int) string {
	elem := col.Elem(row)
	if elem.IsNA() {
		return ""
	}
	if col.Type() == series.Float {
		return strconv.FormatFloat(elem.Float(), 'f', -1, 64)
	}
	return elem.String()
}
