package handler

import (
	"log/slog"
	"net/http"

	models "sitecraft/internal/domain/models/page"
	pageSvc "sitecraft/internal/domain/services/page"
	"sitecraft/internal/httputil"
	pageService "sitecraft/internal/service/page"
)

// WidgetHandler handles widget edits inside a stored page
type WidgetHandler struct {
	pageService pageSvc.PageService
	library     *pageService.Library
	logger      *slog.Logger
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(pageService pageSvc.PageService, library *pageService.Library, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{
		pageService: pageService,
		library:     library,
		logger:      logger,
	}
}

// widgetTypeInfo is the listing view of one library definition
type widgetTypeInfo struct {
	Type           models.WidgetType    `json:"type"`
	Label          string               `json:"label"`
	Container      bool                 `json:"container"`
	DefaultContent models.WidgetContent `json:"default_content"`
	DefaultStyle   models.WidgetStyle   `json:"default_style"`
}

// ListWidgetTypes lists the registered widget types in library order
// GET /api/widgets
func (h *WidgetHandler) ListWidgetTypes(w http.ResponseWriter, r *http.Request) {
	types := h.library.Types()
	out := make([]widgetTypeInfo, 0, len(types))
	for _, t := range types {
		def, _ := h.library.Definition(t)
		out = append(out, widgetTypeInfo{
			Type:           def.Type,
			Label:          def.Label,
			Container:      def.Type.IsContainer(),
			DefaultContent: def.DefaultContent,
			DefaultStyle:   def.DefaultStyle,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, out)
}

// AddWidget creates a widget from the library and inserts it
// POST /api/pages/{id}/widgets
func (h *WidgetHandler) AddWidget(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req pageSvc.AddWidgetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	widget, err := h.pageService.AddWidget(r.Context(), pageID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, widget)
}

// UpdateWidget applies a partial update to a widget
// PATCH /api/pages/{id}/widgets/{widgetId}
func (h *WidgetHandler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := pathParam(w, r, "widgetId")
	if !ok {
		return
	}

	var req pageSvc.UpdateWidgetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	widget, err := h.pageService.UpdateWidget(r.Context(), pageID, widgetID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, widget)
}

// MoveWidget moves a widget to a new parent and position, returning the page
// POST /api/pages/{id}/widgets/{widgetId}/move
func (h *WidgetHandler) MoveWidget(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := pathParam(w, r, "widgetId")
	if !ok {
		return
	}

	var req pageSvc.MoveWidgetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.pageService.MoveWidget(r.Context(), pageID, widgetID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DuplicateWidget clones a widget next to the original
// POST /api/pages/{id}/widgets/{widgetId}/duplicate
func (h *WidgetHandler) DuplicateWidget(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := pathParam(w, r, "widgetId")
	if !ok {
		return
	}

	clone, err := h.pageService.DuplicateWidget(r.Context(), pageID, widgetID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, clone)
}

// RemoveWidget removes a widget and its subtree
// DELETE /api/pages/{id}/widgets/{widgetId}
func (h *WidgetHandler) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	pageID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	widgetID, ok := pathParam(w, r, "widgetId")
	if !ok {
		return
	}

	if err := h.pageService.RemoveWidget(r.Context(), pageID, widgetID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
