package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"sitecraft/internal/domain"
	"sitecraft/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Typed errors carry
// their own status; wrapped sentinels are mapped here. Anything else is a 500
// whose detail stays in the log.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		extras := map[string]interface{}{"resource_type": conflictErr.ResourceType}
		if conflictErr.ResourceID != "" {
			extras["resource_id"] = conflictErr.ResourceID
		}
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathParam returns a required path value, answering 400 when it is empty
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return v, true
}
