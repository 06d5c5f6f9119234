package utils

import (
	"encoding/json"
	"net/http"

	"github.com/username/finplan/backend/src/logger"
)

// SendJSONError writes a JSON error body with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logger.L.Error("Failed to encode JSON error response", "error", err)
	}
}

// SendJSONFieldErrors writes a 400 response carrying per-field validation
// messages, the shape the calculator forms render inline.
func SendJSONFieldErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"errors": fieldErrors}); err != nil {
		logger.L.Error("Failed to encode JSON field errors response", "error", err)
	}
}

// SendJSONResponse writes payload as JSON with the given status code.
func SendJSONResponse(w http.ResponseWriter, payload interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}
