package export

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
)

type upperExporter struct{}

func (upperExporter) Name() string        { return "TXT" }
func (upperExporter) ContentType() string { return "text/plain" }
func (upperExporter) Export(_ context.Context, doc *models.PageDocument, _ exportSvc.Options) ([]byte, error) {
	return []byte(strings.ToUpper(doc.Name)), nil
}

func TestExporterRegistry(t *testing.T) {
	registry := NewExporterRegistry(false)

	assert.Equal(t, []string{"builder", "html", "json", "markdown"}, registry.Formats())
	assert.NotNil(t, registry.Get("HTML"))
	assert.Nil(t, registry.Get("pdf"))

	out, contentType, err := registry.Export(context.Background(), "json", docWith(), exportSvc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.True(t, strings.HasPrefix(string(out), "{"))

	_, _, err = registry.Export(context.Background(), "pdf", docWith(), exportSvc.Options{})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "builder, html, json, markdown")

	registry.Register(upperExporter{})
	out, contentType, err = registry.Export(context.Background(), "txt", docWith(), exportSvc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, "PADARIA CENTRAL", string(out))
}

func TestMarkdownExport(t *testing.T) {
	doc := docWith(
		leaf("h", models.WidgetHeading, map[string]any{"text": "Our story", "tag": "h2"}),
		leaf("t", models.WidgetText, map[string]any{"text": "Baked daily by [business_name]."}),
		leaf("b", models.WidgetButton, map[string]any{"text": "Order now", "link": "https://padaria.example/order"}),
	)
	doc.SEO.Title = "Padaria"
	doc.SEO.Description = "Fresh bread"

	out, err := NewMarkdownExporter().Export(context.Background(), doc, exportSvc.Options{
		FieldValues: map[string]string{"business_name": "Padaria Central"},
	})
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# Padaria\n\n> Fresh bread\n\n"))
	assert.Contains(t, md, "## Our story")
	assert.Contains(t, md, "Baked daily by Padaria Central.")
	assert.Contains(t, md, "[Order now](https://padaria.example/order)")
	assert.NotContains(t, md, "data-widget-id")
}
