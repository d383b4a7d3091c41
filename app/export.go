package app

import (
	"io"
	"strings"

	"riskexplorer/adapters/excel"
	"riskexplorer/internal/errors"

	"github.com/go-gota/gota/dataframe"
)

// ExportFormat is a download format for the filtered table
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat accepts csv or xlsx, case insensitive
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case ExportCSV, "":
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	}
	return "", errors.InvalidInput("unknown export format " + value)
}

// FileName is the attachment name offered for the format
func (f ExportFormat) FileName() string {
	return "filtered_data." + string(f)
}

// ContentType is the MIME type of the format
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Export writes df with a header row and no index column
func Export(w io.Writer, df dataframe.DataFrame, format ExportFormat) error {
	switch format {
	case ExportXLSX:
		return excel.WriteXLSX(w, df)
	default:
		return excel.WriteCSV(w, df)
	}
}
