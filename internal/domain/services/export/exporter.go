package export

import (
	"context"

	models "sitecraft/internal/domain/models/page"
)

// Options tunes a single export
type Options struct {
	// FieldValues replaces [FIELD_NAME] placeholders in text content.
	// Placeholders without a value are left intact.
	FieldValues map[string]string

	// Minify compacts HTML output
	Minify bool

	// Fragment renders only the widget markup, without the surrounding document
	Fragment bool
}

// Exporter renders a page document into one output format.
//
// Implementations must not mutate the document and must be safe for concurrent use.
type Exporter interface {
	// Export renders doc
	Export(ctx context.Context, doc *models.PageDocument, opts Options) ([]byte, error)

	// ContentType is the MIME type of the rendered output
	ContentType() string

	// Name returns the format key the exporter is registered under
	Name() string
}
