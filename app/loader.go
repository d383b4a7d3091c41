package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"riskexplorer/domain/dataset"
	"riskexplorer/internal"
	"riskexplorer/internal/errors"
	"riskexplorer/ports"

	"github.com/go-gota/gota/dataframe"
)

// Notice texts shown for each load outcome
const (
	MsgAwaitingInput = "Please upload or load a CSV to begin."
	MsgUploaded      = "File uploaded successfully!"
	MsgURLLoaded     = "CSV loaded from URL!"
	MsgLoadFailed    = "Failed to load CSV: %v"
	MsgLocalLoaded   = "Loaded default local file: %s"
	MsgLocalMissing  = "Default file '%s' not found in your directory."
)

// Source selects the table to load and carries that source's input
type Source struct {
	Kind dataset.SourceKind

	// upload: fresh bytes win over a token from an earlier submission
	UploadName  string
	UploadData  []byte
	UploadToken string

	URL string
}

// Loaded is the outcome of one load. Table is nil when nothing was loaded.
type Loaded struct {
	Table       *dataframe.DataFrame
	Notice      *dataset.Notice
	Err         error
	UploadToken string
	UploadName  string
}

// Loader turns a source selection into a table
type Loader struct {
	reader         ports.TableReaderPort
	fetcher        ports.FetcherPort
	uploads        ports.UploadStorePort
	localPath      string
	maxUploadBytes int64
	log            *internal.Logger
}

// NewLoader wires a loader. maxUploadBytes <= 0 disables the upload size check.
func NewLoader(reader ports.TableReaderPort, fetcher ports.FetcherPort, uploads ports.UploadStorePort, localPath string, maxUploadBytes int64) *Loader {
	return &Loader{
		reader:         reader,
		fetcher:        fetcher,
		uploads:        uploads,
		localPath:      localPath,
		maxUploadBytes: maxUploadBytes,
		log:            internal.DefaultLogger.With("loader"),
	}
}

// LocalPath is the file read for the local source
func (l *Loader) LocalPath() string {
	return l.localPath
}

// Load never fails the caller: every failure becomes an error notice
func (l *Loader) Load(ctx context.Context, src Source) Loaded {
	switch src.Kind {
	case dataset.SourceURL:
		return l.loadURL(ctx, src.URL)
	case dataset.SourceLocal:
		return l.loadLocal()
	default:
		return l.loadUpload(ctx, src)
	}
}

func (l *Loader) loadUpload(ctx context.Context, src Source) Loaded {
	name, data, token := src.UploadName, src.UploadData, src.UploadToken

	if len(data) > 0 {
		if err := l.validateUpload(name, int64(len(data))); err != nil {
			return failed(err)
		}
		if l.uploads != nil {
			var err error
			if token, err = l.uploads.Put(ctx, name, data); err != nil {
				return failed(err)
			}
		}
	} else if token != "" && l.uploads != nil {
		upload, err := l.uploads.Get(ctx, token)
		if err != nil {
			l.log.Debug("upload token %s not usable: %v", token, err)
			return awaiting()
		}
		name, data = upload.Name, upload.Data
	} else {
		return awaiting()
	}

	df, err := l.reader.ReadCSV(data)
	if err != nil {
		return failed(err)
	}
	l.log.Info("loaded upload %s", name)
	return Loaded{Table: &df, Notice: dataset.Success(MsgUploaded), UploadToken: token, UploadName: name}
}

func (l *Loader) validateUpload(name string, size int64) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return errors.InvalidInput(fmt.Sprintf("%q is not a .csv file", name))
	}
	if l.maxUploadBytes > 0 && size > l.maxUploadBytes {
		return errors.InvalidInput(fmt.Sprintf("%q is larger than %d MB", name, l.maxUploadBytes>>20))
	}
	return nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) Loaded {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return awaiting()
	}
	body, err := l.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		l.log.Warn("fetch %s failed: %v", rawURL, err)
		return failed(err)
	}
	df, err := l.reader.ReadCSV(body)
	if err != nil {
		return failed(err)
	}
	return Loaded{Table: &df, Notice: dataset.Success(MsgURLLoaded)}
}

func (l *Loader) loadLocal() Loaded {
	data, err := os.ReadFile(l.localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Loaded{
				Notice: dataset.Failure(fmt.Sprintf(MsgLocalMissing, l.localPath)),
				Err:    errors.FileNotFound(l.localPath),
			}
		}
		return failed(errors.WithCode(errors.CodeFileNotFound, err))
	}
	df, err := l.reader.ReadCSV(data)
	if err != nil {
		return failed(err)
	}
	return Loaded{Table: &df, Notice: dataset.Success(fmt.Sprintf(MsgLocalLoaded, l.localPath))}
}

func awaiting() Loaded {
	return Loaded{Notice: dataset.Info(MsgAwaitingInput)}
}

func failed(err error) Loaded {
	return Loaded{Notice: dataset.Failure(fmt.Sprintf(MsgLoadFailed, err)), Err: err}
}
