package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"riskexplorer/app"
	"riskexplorer/internal"
	"riskexplorer/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Options tune the page surface
type Options struct {
	MaxUploadBytes int64
	PreviewRows    int
	LocalPath      string
}

// Server is the web front end of the explorer
type Server struct {
	router    *gin.Engine
	explorer  *app.ExplorerService
	templates *template.Template
	assets    fs.FS
	glossary  template.HTML
	opts      Options
	log       *internal.Logger
}

// NewServer parses templates and content from assets (rooted at the module,
// so paths start with ui/) and registers the routes
func NewServer(assets fs.FS, explorer *app.ExplorerService, opts Options) (*Server, error) {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 1000
	}
	s := &Server{
		router:   gin.Default(),
		explorer: explorer,
		assets:   assets,
		opts:     opts,
		log:      internal.DefaultLogger.With("ui"),
	}

	templates, err := parseTemplates(assets)
	if err != nil {
		return nil, err
	}
	s.templates = templates

	glossary, err := renderGlossary(assets)
	if err != nil {
		return nil, err
	}
	s.glossary = glossary

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	if s.opts.MaxUploadBytes > 0 {
		s.router.MaxMultipartMemory = s.opts.MaxUploadBytes
		// headroom for the other form fields
		s.router.Use(middleware.LimitBody(s.opts.MaxUploadBytes + 1<<20))
	}
	s.router.Use(middleware.RequestLog(s.log))

	staticFS, err := fs.Sub(s.assets, "ui/static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/", s.handleIndex)

	s.router.GET("/download/:format", s.handleDownload)
	s.router.POST("/download/:format", s.handleDownload)

	s.router.GET("/healthz", s.handleHealth)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting Healthcare Risk Explorer on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
