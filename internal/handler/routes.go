package handler

import "net/http"

// Handlers groups the HTTP handlers of the API
type Handlers struct {
	Page    *PageHandler
	Widget  *WidgetHandler
	Export  *ExportHandler
	Convert *ConvertHandler
}

// Register mounts every API route on mux (Go 1.22+ method patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Page.HealthCheck)

	// Widget library
	mux.HandleFunc("GET /api/widgets", h.Widget.ListWidgetTypes)

	// Page routes
	mux.HandleFunc("GET /api/pages", h.Page.ListPages)
	mux.HandleFunc("POST /api/pages", h.Page.CreatePage)
	mux.HandleFunc("GET /api/pages/{id}", h.Page.GetPage)
	mux.HandleFunc("PATCH /api/pages/{id}", h.Page.UpdatePage)
	mux.HandleFunc("PUT /api/pages/{id}", h.Page.ReplacePage)
	mux.HandleFunc("DELETE /api/pages/{id}", h.Page.DeletePage)
	mux.HandleFunc("GET /api/pages/{id}/validate", h.Page.ValidatePage)

	// Widget edits
	mux.HandleFunc("POST /api/pages/{id}/widgets", h.Widget.AddWidget)
	mux.HandleFunc("PATCH /api/pages/{id}/widgets/{widgetId}", h.Widget.UpdateWidget)
	mux.HandleFunc("DELETE /api/pages/{id}/widgets/{widgetId}", h.Widget.RemoveWidget)
	mux.HandleFunc("POST /api/pages/{id}/widgets/{widgetId}/move", h.Widget.MoveWidget)
	mux.HandleFunc("POST /api/pages/{id}/widgets/{widgetId}/duplicate", h.Widget.DuplicateWidget)

	// Export and import
	mux.HandleFunc("GET /api/export/formats", h.Export.ListFormats)
	mux.HandleFunc("GET /api/pages/{id}/export/{format}", h.Export.ExportPage)
	mux.HandleFunc("POST /api/pages/{id}/export/{format}", h.Export.ExportPage)
	mux.HandleFunc("POST /api/pages/import/builder", h.Export.ImportBuilder)
	mux.HandleFunc("POST /api/pages/import/json", h.Export.ImportCanonical)

	// Conversion
	mux.HandleFunc("POST /api/convert", h.Convert.Convert)
	mux.HandleFunc("POST /api/pages/{id}/convert", h.Convert.ConvertPage)
}
