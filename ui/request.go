package ui

import (
	"io"
	"mime/multipart"
	"strings"

	"riskexplorer/app"
	"riskexplorer/domain/dataset"
	"riskexplorer/internal/errors"
	"riskexplorer/internal/filter"

	"github.com/gin-gonic/gin"
)

// Form field names shared with the templates
const (
	fieldSource      = "source"
	fieldDataset     = "dataset"
	fieldUploadToken = "upload_token"
	fieldURL         = "url"
	fieldX           = "x"
	fieldY           = "y"
	fieldChart       = "chart"

	// noneValue is the "no Y column" option
	noneValue = "none"
)

// parseRequest reads the complete control state from the query string and
// the (optionally multipart) form body
func (s *Server) parseRequest(c *gin.Context) (app.Request, error) {
	r := c.Request
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(s.router.MaxMultipartMemory)
	} else {
		err = r.ParseForm()
	}

	form := r.Form
	req := app.Request{
		Source: app.Source{
			Kind:        dataset.ParseSource(form.Get(fieldSource)),
			UploadToken: strings.TrimSpace(form.Get(fieldUploadToken)),
			URL:         form.Get(fieldURL),
		},
		Selections: filter.ParseSelections(form),
		Chart: dataset.ChartSpec{
			X:    form.Get(fieldX),
			Y:    form.Get(fieldY),
			Kind: dataset.ParseChartKind(form.Get(fieldChart)),
		},
	}
	if req.Chart.Y == noneValue {
		req.Chart.Y = ""
	}
	if err != nil {
		return req, errors.InvalidInput("request too large or malformed: " + err.Error())
	}

	if req.Source.Kind == dataset.SourceUpload && r.MultipartForm != nil {
		if files := r.MultipartForm.File[fieldDataset]; len(files) > 0 && files[0].Size > 0 {
			data, err := s.readUpload(files[0])
			if err != nil {
				return req, err
			}
			req.Source.UploadName, req.Source.UploadData = files[0].Filename, data
		}
	}
	return req, nil
}

// readUpload reads at most one byte over the limit so the loader can tell
// an oversized file apart
func (s *Server) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	var src io.Reader = f
	if s.opts.MaxUploadBytes > 0 {
		src = io.LimitReader(f, s.opts.MaxUploadBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	return data, nil
}
