// Package fragments provides template name constants for the dashboard templates
package fragments

import "strings"

// Template names as registered by ParseFS (file base names)
const (
	// Pages
	IndexPage = "index.html"
	AboutPage = "about.html"

	// Fragments swapped in by HTMX
	ViewFragment        = "view.html"
	ClientTableFragment = "client_table.html"
	ErrorFragment       = "error.html"
)

// GetAllTemplatePaths returns all template names the server expects to exist
func GetAllTemplatePaths() []string {
	return []string{
		IndexPage,
		AboutPage,

		ViewFragment,
		ClientTableFragment,
		ErrorFragment,
	}
}

// GetTemplateCategory reports whether a template is a full page or a fragment
func GetTemplateCategory(templateName string) string {
	switch {
	case templateName == IndexPage, templateName == AboutPage:
		return "page"
	case strings.HasSuffix(templateName, ".html"):
		return "fragment"
	default:
		return "unknown"
	}
}
