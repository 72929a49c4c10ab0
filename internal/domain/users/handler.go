// Package users expone el proxy de solo lectura hacia el listado de
// usuarios del auth service. Acá no hay modelo propio: la fuente de
// verdad de usuarios y roles es el upstream.
package users

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"pet-patients-service/internal/middleware"
	"pet-patients-service/internal/ports/directory"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, dir directory.Client) {
	r.Get("/users", fetchUsersHandler(dir))
}

func fetchUsersHandler(dir directory.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer := middleware.GetBearer(r.Context())

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		role := strings.TrimSpace(q.Get("role"))

		// Con filtro por rol devolvemos nuestro propio envelope; sin
		// filtro, el envelope paginado del upstream pasa tal cual.
		if role != "" {
			list, err := dir.ListUsersByRole(r.Context(), role, bearer)
			if err != nil {
				writeUpstreamError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Users retrieved successfully",
				"data":    list,
			})
			return
		}

		raw, err := dir.ListUsersRaw(r.Context(), page, limit, bearer)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]any{
		"success": false,
		"message": "Could not fetch users from Auth Service",
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
