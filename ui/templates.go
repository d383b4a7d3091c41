package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"fixed": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
}

// parseTemplates loads ui/templates/*.html and one level of fragments,
// naming each template by its path under ui/templates
func parseTemplates(assets fs.FS) (*template.Template, error) {
	templatesFS, err := fs.Sub(assets, "ui/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	files1, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob root templates: %w", err)
	}
	files2, err := fs.Glob(templatesFS, "*/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob nested templates: %w", err)
	}
	files := append(files1, files2...)
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under ui/templates")
	}

	templates := template.New("").Funcs(funcMap)
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := templates.New(file).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	return templates, nil
}

// renderTemplate executes into a buffer first so a template error never
// leaves a half written page
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("Template error for %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// renderGlossary turns ui/content/columns.md into HTML
func renderGlossary(assets fs.FS) (template.HTML, error) {
	md, err := fs.ReadFile(assets, "ui/content/columns.md")
	if err != nil {
		return "", fmt.Errorf("failed to read column glossary: %w", err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML(md, p, renderer)), nil
}
