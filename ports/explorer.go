package ports

import (
	"context"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal/session"

	"github.com/go-gota/gota/dataframe"
)

// FetcherPort downloads a CSV body over HTTP
type FetcherPort interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// TableReaderPort parses CSV bytes into a table
type TableReaderPort interface {
	ReadCSV(data []byte) (dataframe.DataFrame, error)
}

// ChartRendererPort draws one chart of a filtered table. A nil chart with a
// nil error means there is nothing to draw.
type ChartRendererPort interface {
	Render(df dataframe.DataFrame, spec dataset.ChartSpec) (*dataset.Chart, error)
}

// UploadStorePort holds uploaded bytes between submissions
type UploadStorePort interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, token string) (*session.Upload, error)
}
