package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"filplus/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedFiles embed.FS

// Assets returns the embedded templates and static files
func Assets() fs.FS {
	return embeddedFiles
}

var templateFuncs = template.FuncMap{
	"selected": func(a, b string) bool { return a == b },
	"add":      func(a, b int) int { return a + b },
}

// parseTemplates loads pages and fragments and checks every expected name is present
func parseTemplates(assets fs.FS) (*template.Template, error) {
	templates, err := template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range fragments.GetAllTemplatePaths() {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s not found", name)
		}
	}
	return templates, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// Render to a buffer first so a failing template never writes a partial page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error for %s: %v", templateName, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("Error writing template response: %v", err)
	}
}
