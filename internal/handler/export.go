package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	exportSvc "sitecraft/internal/domain/services/export"
	pageSvc "sitecraft/internal/domain/services/page"
	"sitecraft/internal/httputil"
	"sitecraft/internal/service/export"
	pageService "sitecraft/internal/service/page"
)

// ExportHandler renders stored pages and imports external documents
type ExportHandler struct {
	pageService pageSvc.PageService
	registry    *export.ExporterRegistry
	importer    *export.BuilderImporter
	library     *pageService.Library
	logger      *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(
	pageService pageSvc.PageService,
	registry *export.ExporterRegistry,
	importer *export.BuilderImporter,
	library *pageService.Library,
	logger *slog.Logger,
) *ExportHandler {
	return &ExportHandler{
		pageService: pageService,
		registry:    registry,
		importer:    importer,
		library:     library,
		logger:      logger,
	}
}

// exportRequest carries placeholder values for POST exports
type exportRequest struct {
	FieldValues map[string]string `json:"field_values"`
}

// ListFormats lists the registered export formats
// GET /api/export/formats
func (h *ExportHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"formats": h.registry.Formats(),
	})
}

// ExportPage renders a page in the requested format.
// Query parameters: minify, fragment, download.
// GET  /api/pages/{id}/export/{format}
// POST /api/pages/{id}/export/{format} with {"field_values": {...}}
func (h *ExportHandler) ExportPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	format, ok := pathParam(w, r, "format")
	if !ok {
		return
	}

	var req exportRequest
	if r.Method == http.MethodPost {
		if err := httputil.ParseJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	doc, err := h.pageService.GetPage(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	opts := exportSvc.Options{
		FieldValues: lowerKeys(req.FieldValues),
		Minify:      httputil.QueryBool(r, "minify", false),
		Fragment:    httputil.QueryBool(r, "fragment", false),
	}
	body, contentType, err := h.registry.Export(r.Context(), format, doc, opts)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Debug("page exported", "id", id, "format", format, "bytes", len(body))

	filename := ""
	if httputil.QueryBool(r, "download", false) {
		filename = doc.Slug + extensionFor(format)
	}
	httputil.RespondBytes(w, http.StatusOK, contentType, body, filename)
}

// ImportBuilder creates a page from page-builder JSON
// POST /api/pages/import/builder?name=
func (h *ExportHandler) ImportBuilder(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported, err := h.importer.Import(body, r.URL.Query().Get("name"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	doc, err := h.pageService.CreatePage(r.Context(), &pageSvc.CreatePageRequest{
		Name:     imported.Name,
		Settings: imported.Settings,
		Widgets:  imported.Widgets,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("builder document imported", "id", doc.ID, "widget_count", doc.WidgetCount())
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ImportCanonical creates a page from canonical JSON. The stored page gets a
// new id; the tree keeps its widget ids.
// POST /api/pages/import/json
func (h *ExportHandler) ImportCanonical(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	decoded, err := export.DecodeCanonical(body, h.library)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	seo := decoded.SEO
	doc, err := h.pageService.CreatePage(r.Context(), &pageSvc.CreatePageRequest{
		Name:     decoded.Name,
		SEO:      &seo,
		Settings: decoded.Settings,
		Widgets:  decoded.Widgets,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

func extensionFor(format string) string {
	switch strings.ToLower(format) {
	case "html":
		return ".html"
	case "markdown":
		return ".md"
	case "builder":
		return ".builder.json"
	default:
		return "." + strings.ToLower(format)
	}
}

// lowerKeys normalizes field names, which placeholders match case-insensitively
func lowerKeys(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[strings.ToLower(k)] = v
	}
	return out
}
