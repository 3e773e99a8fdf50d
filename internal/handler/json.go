// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes the fixed-shape error body used by the JSON
// endpoints: {"error": "<message>"}.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// logAndInternalError logs the real failure server-side and emits only the
// generic message to the caller, so no internal detail leaks.
func logAndInternalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeJSONError(w, http.StatusInternalServerError, message)
}
