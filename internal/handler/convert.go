package handler

import (
	"log/slog"
	"net/http"

	pageSvc "sitecraft/internal/domain/services/page"
	"sitecraft/internal/httputil"
	"sitecraft/internal/service/convert"
)

// ConvertHandler runs the template conversion pipeline
type ConvertHandler struct {
	converter   *convert.Converter
	pageService pageSvc.PageService
	logger      *slog.Logger
}

// NewConvertHandler creates a new convert handler
func NewConvertHandler(converter *convert.Converter, pageService pageSvc.PageService, logger *slog.Logger) *ConvertHandler {
	return &ConvertHandler{
		converter:   converter,
		pageService: pageService,
		logger:      logger,
	}
}

// Convert classifies a posted widget tree.
// ?artifact=acf|php|script returns only that artifact.
// POST /api/convert
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convert.ConvertRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.run(w, r, &req)
}

// ConvertPage classifies the widget tree of a stored page. The body takes the
// same options as /api/convert; its widgets member is ignored.
// POST /api/pages/{id}/convert
func (h *ConvertHandler) ConvertPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req convert.ConvertRequest
	if r.ContentLength != 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	doc, err := h.pageService.GetPage(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	req.Widgets = doc.Widgets
	if req.TemplateName == "" {
		req.TemplateName = doc.Slug
	}

	h.run(w, r, &req)
}

func (h *ConvertHandler) run(w http.ResponseWriter, r *http.Request, req *convert.ConvertRequest) {
	result, err := h.converter.Convert(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	switch artifact := r.URL.Query().Get("artifact"); artifact {
	case "":
		httputil.RespondJSON(w, http.StatusOK, result)
	case "acf":
		body, err := convert.MarshalACF(result.ACF)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		httputil.RespondBytes(w, http.StatusOK, "application/json", body, "acf-export.json")
	case "php":
		httputil.RespondBytes(w, http.StatusOK, "application/x-httpd-php; charset=utf-8", []byte(result.Code.PHP), "")
	case "script":
		httputil.RespondBytes(w, http.StatusOK, "text/javascript; charset=utf-8", []byte(result.Code.Script), "")
	default:
		httputil.RespondError(w, http.StatusBadRequest, "unknown artifact "+artifact+" (supported: acf, php, script)")
	}
}
