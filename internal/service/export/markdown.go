package export

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
)

// markdownExporter produces a plain-text preview of a page.
// The page is rendered as an HTML fragment first, then converted to markdown.
type markdownExporter struct {
	html      exportSvc.Exporter
	converter *md.Converter
}

// NewMarkdownExporter creates the markdown preview exporter
func NewMarkdownExporter() exportSvc.Exporter {
	return &markdownExporter{
		html:      NewHTMLExporter(false),
		converter: md.NewConverter("", true, nil),
	}
}

func (e *markdownExporter) Name() string        { return "markdown" }
func (e *markdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }

func (e *markdownExporter) Export(ctx context.Context, doc *models.PageDocument, opts exportSvc.Options) ([]byte, error) {
	fragment, err := e.html.Export(ctx, doc, exportSvc.Options{
		FieldValues: opts.FieldValues,
		Fragment:    true,
	})
	if err != nil {
		return nil, err
	}

	body, err := e.converter.ConvertString(string(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	title := doc.SEO.Title
	if strings.TrimSpace(title) == "" {
		title = doc.Name
	}

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	if doc.SEO.Description != "" {
		b.WriteString("> " + doc.SEO.Description + "\n\n")
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return []byte(b.String()), nil
}
