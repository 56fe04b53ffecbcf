package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Envelope is the JSON wrapper of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondSuccess writes a success envelope. Empty message and nil data are omitted.
func RespondSuccess(w http.ResponseWriter, logger *slog.Logger, status int, message string, data any) {
	RespondJSON(w, logger, status, Envelope{Success: true, Message: message, Data: data})
}

// RespondError writes a failure envelope carrying a single message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, Envelope{Success: false, Message: message})
}

// RespondValidation writes a 422 failure envelope with field level messages.
func RespondValidation(w http.ResponseWriter, logger *slog.Logger, fields map[string][]string) {
	RespondJSON(w, logger, http.StatusUnprocessableEntity, Envelope{Success: false, Errors: fields})
}

// ParseInt64Param extracts a positive integer chi URL parameter.
// The boolean is false when the value is missing or not a positive integer.
func ParseInt64Param(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
