package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err *apperr.Error) {
	writeJSON(w, err.HTTPStatus(), errorResponse{
		Error:   err.Code,
		Message: err.Message,
		Details: err.Details,
	})
}

func writeInvalidRequest(w http.ResponseWriter) {
	writeError(w, apperr.BadRequest(apperr.CodeInvalidRequest, "Request body must be valid JSON"))
}

// handleError writes err to the client. Anything that is not an *apperr.Error becomes a generic 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := httplog.LogEntry(r.Context())
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}
	switch {
	case appErr.HTTPStatus() >= http.StatusInternalServerError:
		logger.Error("request failed", "code", appErr.Code, "error", appErr.Cause())
	case appErr.Cause() != nil:
		logger.Warn("request rejected", "code", appErr.Code, "error", appErr.Cause())
	}
	writeError(w, appErr)
}
