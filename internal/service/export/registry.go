package export

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
)

// ExporterRegistry routes export requests to exporters by format name.
//
// Thread-safe for concurrent access.
type ExporterRegistry struct {
	mu        sync.RWMutex
	exporters map[string]exportSvc.Exporter
}

// NewExporterRegistry creates a registry with the standard exporters registered
func NewExporterRegistry(minifyHTML bool) *ExporterRegistry {
	registry := &ExporterRegistry{
		exporters: make(map[string]exportSvc.Exporter),
	}

	registry.Register(NewHTMLExporter(minifyHTML))
	registry.Register(NewBuilderExporter())
	registry.Register(NewCanonicalExporter())
	registry.Register(NewMarkdownExporter())

	return registry
}

// Register adds an exporter under its name, replacing any previous one.
// Names are case-insensitive.
func (r *ExporterRegistry) Register(exporter exportSvc.Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[strings.ToLower(exporter.Name())] = exporter
}

// Get returns the exporter for format, or nil
func (r *ExporterRegistry) Get(format string) exportSvc.Exporter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exporters[strings.ToLower(format)]
}

// Export renders doc in format. The returned string is the content type.
func (r *ExporterRegistry) Export(ctx context.Context, format string, doc *models.PageDocument, opts exportSvc.Options) ([]byte, string, error) {
	exporter := r.Get(format)
	if exporter == nil {
		return nil, "", &domain.ValidationError{
			Message: fmt.Sprintf("unsupported export format %q (supported: %s)", format, strings.Join(r.Formats(), ", ")),
		}
	}

	out, err := exporter.Export(ctx, doc, opts)
	if err != nil {
		return nil, "", err
	}
	return out, exporter.ContentType(), nil
}

// Formats returns the registered format names, sorted
func (r *ExporterRegistry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}
