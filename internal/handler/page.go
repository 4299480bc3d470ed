package handler

import (
	"log/slog"
	"net/http"
	"time"

	pageSvc "sitecraft/internal/domain/services/page"
	"sitecraft/internal/httputil"
	"sitecraft/internal/service/export"
	pageService "sitecraft/internal/service/page"
)

// PageHandler handles page document HTTP requests
type PageHandler struct {
	pageService pageSvc.PageService
	library     *pageService.Library
	logger      *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService pageSvc.PageService, library *pageService.Library, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		library:     library,
		logger:      logger,
	}
}

// CreatePage creates a new page
// POST /api/pages
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req pageSvc.CreatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.pageService.CreatePage(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListPages lists stored pages, most recently updated first
// GET /api/pages
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pageService.ListPages(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pages)
}

// GetPage retrieves a page with its full widget tree
// GET /api/pages/{id}
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.pageService.GetPage(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdatePage updates name, SEO and settings
// PATCH /api/pages/{id}
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req pageSvc.UpdatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.pageService.UpdatePage(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ReplacePage saves a whole document in canonical JSON form
// PUT /api/pages/{id}
func (h *PageHandler) ReplacePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := export.DecodeCanonical(body, h.library)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	saved, err := h.pageService.ReplacePage(r.Context(), id, doc)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, saved)
}

// DeletePage deletes a page
// DELETE /api/pages/{id}
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.pageService.DeletePage(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ValidatePage reports content warnings for a page
// GET /api/pages/{id}/validate
func (h *PageHandler) ValidatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	warnings, err := h.pageService.ValidatePage(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"page_id":  id,
		"valid":    len(warnings) == 0,
		"warnings": warnings,
	})
}

// HealthCheck is a simple health check endpoint
func (h *PageHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
