package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/joestump/bookmarks/internal/logger"
)

type errorMessage struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse is the body of every 4xx response and of 500 responses in
// production: {"error":{"message":"..."}}.
type ErrorResponse struct {
	Error errorMessage `json:"error"`
}

// debugErrorResponse is the 500 body outside production.
type debugErrorResponse struct {
	Message string       `json:"message"`
	Error   errorMessage `json:"error"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: errorMessage{Message: message}})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorReporter is the single place unexpected errors are turned into 500s.
type errorReporter struct {
	log        logger.Logger
	production bool
}

// serverError logs err under a fresh error id and writes a 500. Outside
// production the response carries the error text and id.
func (e errorReporter) serverError(w http.ResponseWriter, r *http.Request, err error) {
	id := uuid.NewString()
	e.log.Error("request failed",
		logger.String("error_id", id),
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Error(err),
	)

	if e.production {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusInternalServerError, debugErrorResponse{
		Message: err.Error(),
		Error:   errorMessage{Message: err.Error(), ID: id},
	})
}
