package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged server-side with the request ID; clients
// get a sanitized JSON message and an appropriate status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mspdesk/assetdesk/internal/importer"
)

// errorResponse is the JSON structure for API error responses.
type errorResponse struct {
	Error string `json:"error"`
}

// respondError logs err with request context and writes a sanitized
// message with the status code implied by the error type.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeError(w, status, clientMessage(err, status))
}

// statusForError maps known service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, importer.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrSessionInProgress):
		return http.StatusConflict
	case errors.Is(err, importer.ErrTooManyImports):
		return http.StatusTooManyRequests
	case errors.Is(err, importer.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, importer.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, importer.ErrMissingColumns),
		errors.Is(err, importer.ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage decides what the client may see. Client-caused errors
// (4xx) are safe to echo; server faults are replaced wholesale.
func clientMessage(err error, status int) string {
	if status >= 500 {
		return "internal server error"
	}
	return err.Error()
}

// writeError writes a JSON error response with the given message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// writeJSON encodes v as JSON. Encoding errors are logged since the
// headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
