package export

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
	pageService "sitecraft/internal/service/page"
)

//go:embed schema/page.schema.json
var pageSchemaJSON []byte

var (
	pageSchema     *gojsonschema.Schema
	pageSchemaErr  error
	pageSchemaOnce sync.Once
)

func getPageSchema() (*gojsonschema.Schema, error) {
	pageSchemaOnce.Do(func() {
		pageSchema, pageSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(pageSchemaJSON))
	})
	return pageSchema, pageSchemaErr
}

// canonicalExporter writes the lossless JSON form of a page document
type canonicalExporter struct{}

// NewCanonicalExporter creates the canonical JSON exporter
func NewCanonicalExporter() exportSvc.Exporter {
	return &canonicalExporter{}
}

func (e *canonicalExporter) Name() string        { return "json" }
func (e *canonicalExporter) ContentType() string { return "application/json" }

// Export ignores opts: the canonical form is never rewritten
func (e *canonicalExporter) Export(ctx context.Context, doc *models.PageDocument, _ exportSvc.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return EncodeCanonical(doc)
}

// EncodeCanonical serializes doc losslessly
func EncodeCanonical(doc *models.PageDocument) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode page document: %w", err)
	}
	return out, nil
}

// DecodeCanonical parses canonical JSON. The payload is checked against the
// page schema, then the widget tree against library (registered types, unique ids).
func DecodeCanonical(data []byte, library *pageService.Library) (*models.PageDocument, error) {
	schema, err := getPageSchema()
	if err != nil {
		return nil, fmt.Errorf("load page schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, &domain.ValidationError{
			Message: "page document does not match schema: " + strings.Join(errs, "; "),
		}
	}

	var doc models.PageDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode page document: %v", domain.ErrValidation, err)
	}
	if err := pageService.CheckTree(library, doc.Widgets); err != nil {
		return nil, err
	}
	return &doc, nil
}
