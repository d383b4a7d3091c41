package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"riskexplorer/app"
	"riskexplorer/domain/dataset"

	"github.com/gin-gonic/gin"
)

// handleIndex runs the whole pipeline from the submitted controls and renders the page
func (s *Server) handleIndex(c *gin.Context) {
	req, err := s.parseRequest(c)
	if err != nil {
		s.log.Warn("bad request: %v", err)
		view := &app.View{
			Source: req.Source.Kind,
			URL:    req.Source.URL,
			Notice: dataset.Failure(fmt.Sprintf(app.MsgLoadFailed, err)),
		}
		s.renderTemplate(c, http.StatusBadRequest, "index.html", s.newPage(view))
		return
	}

	view, err := s.explorer.Run(c.Request.Context(), req)
	if err != nil {
		s.log.Error("pipeline failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	s.renderTemplate(c, http.StatusOK, "index.html", s.newPage(view))
}

// handleDownload exports the filtered table for the same control state as the page
func (s *Server) handleDownload(c *gin.Context) {
	format, err := app.ParseExportFormat(c.Param("format"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}

	req, err := s.parseRequest(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	req.SkipChart = true

	view, err := s.explorer.Run(c.Request.Context(), req)
	if err != nil {
		s.log.Error("pipeline failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	if !view.Loaded {
		c.String(http.StatusBadRequest, view.Notice.Message)
		return
	}

	var buf bytes.Buffer
	if err := app.Export(&buf, view.Filtered, format); err != nil {
		s.log.Error("export %s failed: %v", format, err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	s.log.Info("exported %d rows as %s", view.Filtered.Nrow(), format.FileName())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.FileName()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
