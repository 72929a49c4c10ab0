package middleware

import (
	"encoding/json"
	"net/http"
)

// Mismo envelope de error que usan los handlers: {success:false, message}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
