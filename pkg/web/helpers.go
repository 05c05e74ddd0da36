// Package web holds HTTP helpers shared by the JSON and HTML transports.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

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

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// URLParam returns the chi URL parameter with its path escapes decoded.
func URLParam(r *http.Request, key string) (string, error) {
	return url.PathUnescape(chi.URLParam(r, key))
}

// ParseID extracts the non-empty "id" URL parameter. Returns the ID and a boolean indicating success.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id, err := URLParam(r, "id")
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %q", chi.URLParam(r, "id")))
		return "", false
	}
	if id == "" {
		id = r.PathValue("id")
	}
	if id == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %q", id))
		return "", false
	}
	return id, true
}
