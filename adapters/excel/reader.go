package excel

import (
	"bytes"
	"fmt"
	"time"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader parses headerless CSV bytes into a dataframe
type DataReader struct {
	log *internal.Logger
}

// NewDataReader creates a CSV reader that logs through the default logger
func NewDataReader() *DataReader {
	return &DataReader{log: internal.DefaultLogger.With("DataReader")}
}

// ReadCSV parses data treating the first row as data, never as a header.
// Tables with exactly len(dataset.DefaultHeaders) columns are relabelled.
func (r *DataReader) ReadCSV(data []byte) (dataframe.DataFrame, error) {
	start := time.Now()

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return dataframe.DataFrame{}, errors.ParseFailed(fmt.Errorf("file is empty"))
	}

	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.HasHeader(false))
	if df.Err != nil {
		r.log.Warn("CSV parse failed after %.2fms: %v", msSince(start), df.Err)
		return dataframe.DataFrame{}, errors.ParseFailed(df.Err)
	}

	df, relabelled, err := ApplyDefaultHeaders(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	r.log.Info("CSV parsed in %.2fms (%d columns, %d rows, default headers=%t)",
		msSince(start), df.Ncol(), df.Nrow(), relabelled)
	return df, nil
}

// ApplyDefaultHeaders renames the columns to dataset.DefaultHeaders when the
// column count matches; any other table is returned unchanged.
func ApplyDefaultHeaders(df dataframe.DataFrame) (dataframe.DataFrame, bool, error) {
	if df.Ncol() != len(dataset.DefaultHeaders) {
		return df, false, nil
	}
	if err := df.SetNames(dataset.DefaultHeaders...); err != nil {
		return dataframe.DataFrame{}, false, errors.Wrap(err, "apply default headers")
	}
	return df, true, nil
}

// HasDefaultHeaders reports whether df is labelled with dataset.DefaultHeaders
func HasDefaultHeaders(df dataframe.DataFrame) bool {
	names := df.Names()
	if len(names) != len(dataset.DefaultHeaders) {
		return false
	}
	for i, name := range names {
		if name != dataset.DefaultHeaders[i] {
			return false
		}
	}
	return true
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Nanoseconds()) / 1e6
}
