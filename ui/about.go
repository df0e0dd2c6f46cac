package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"filplus/domain/metrics"
	"filplus/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const aboutSource = "templates/about.md"

var normalizationNotes = map[metrics.Normalization]string{
	metrics.NormalizeNone:         "raw value",
	metrics.NormalizePercent:      "fraction × 100, one decimal",
	metrics.NormalizeEpochsToDays: "epochs ÷ 2880, one decimal",
	metrics.NormalizeBytesToTiB:   "bytes ÷ 2^40, one decimal",
}

// aboutHTML renders the embedded introduction followed by the metric glossary
func (s *Server) aboutHTML() (template.HTML, error) {
	intro, err := fs.ReadFile(s.assets, aboutSource)
	if err != nil {
		return "", errors.WithCode(errors.CodeInternalError, err)
	}
	return RenderMarkdown(append(intro, glossaryMarkdown()...)), nil
}

// RenderMarkdown converts CommonMark with tables into HTML
func RenderMarkdown(source []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(source, p, renderer))
}

func glossaryMarkdown() []byte {
	var buf bytes.Buffer
	buf.WriteString("\n\n## Metrics\n\n")
	buf.WriteString("| Column | Name | Displayed as | Table |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, d := range metrics.All() {
		table := "full"
		if d.Truncated {
			table = fmt.Sprintf("first %d characters", metrics.TruncateWidth)
		}
		fmt.Fprintf(&buf, "| `%s` | %s | %s | %s |\n", d.ID, d.Name, normalizationNotes[d.Normalization], table)
	}
	return buf.Bytes()
}
