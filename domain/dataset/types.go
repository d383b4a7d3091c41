package dataset

import "strings"

// DefaultHeaders labels the 14 columns of the UCI heart disease dataset
var DefaultHeaders = []string{
	"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
	"thalach", "exang", "oldpeak", "slope", "ca", "thal", "target",
}

// SourceKind selects where the table comes from
type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceURL    SourceKind = "url"
	SourceLocal  SourceKind = "local"
)

// Sources lists the selectable sources in display order
var Sources = []SourceKind{SourceUpload, SourceURL, SourceLocal}

// Label is the text shown next to the source selector
func (s SourceKind) Label() string {
	switch s {
	case SourceURL:
		return "Paste CSV URL"
	case SourceLocal:
		return "Use local default"
	default:
		return "Upload CSV file"
	}
}

// ParseSource maps a form value to a source, defaulting to upload
func ParseSource(value string) SourceKind {
	switch SourceKind(strings.ToLower(strings.TrimSpace(value))) {
	case SourceURL:
		return SourceURL
	case SourceLocal:
		return SourceLocal
	default:
		return SourceUpload
	}
}

// ChartKind is one of the four supported chart types
type ChartKind string

const (
	ChartHistogram   ChartKind = "Histogram"
	ChartBoxplot     ChartKind = "Boxplot"
	ChartBarplot     ChartKind = "Barplot"
	ChartScatterplot ChartKind = "Scatterplot"
)

// ChartKinds lists the chart kinds in display order
var ChartKinds = []ChartKind{ChartHistogram, ChartBoxplot, ChartBarplot, ChartScatterplot}

// ParseChartKind maps a form value to a chart kind, defaulting to Histogram
func ParseChartKind(value string) ChartKind {
	for _, kind := range ChartKinds {
		if strings.EqualFold(string(kind), strings.TrimSpace(value)) {
			return kind
		}
	}
	return ChartHistogram
}

// ChartSpec parameterizes a single render
type ChartSpec struct {
	X    string
	Y    string // empty means no Y column
	Kind ChartKind
}

// HasY reports whether a Y column was chosen
func (s ChartSpec) HasY() bool {
	return s.Y != ""
}

// Chart is a rendered chart
type Chart struct {
	Kind ChartKind
	SVG  []byte
}

// NoticeLevel is the severity of a user-facing message
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown inline on the page
type Notice struct {
	Level   NoticeLevel
	Message string
}

func Info(message string) *Notice    { return &Notice{Level: NoticeInfo, Message: message} }
func Success(message string) *Notice { return &Notice{Level: NoticeSuccess, Message: message} }
func Failure(message string) *Notice { return &Notice{Level: NoticeError, Message: message} }
