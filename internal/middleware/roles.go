package middleware

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// RolePolicy es la tabla declarativa operación => roles permitidos.
// El router la declara completa en un solo lugar; acá solo se consulta.
type RolePolicy map[string][]string

// Require devuelve el middleware de autorización para una operación de la
// tabla. Una operación sin entrada en la tabla niega todo (fail closed).
func (p RolePolicy) Require(op string) func(http.Handler) http.Handler {
	allowed := p[op]
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			if status, msg := authorize(claims.Role.Name, allowed); status != 0 {
				writeError(w, status, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authorize es el único punto de decisión de roles. Devuelve (0, "") si
// el rol está permitido.
func authorize(role string, allowed []string) (int, string) {
	role = strings.TrimSpace(role)
	if role == "" {
		return http.StatusForbidden, "User role not found in token."
	}
	if !slices.Contains(allowed, role) {
		return http.StatusForbidden, fmt.Sprintf(
			"Access denied. Required roles: %s. Your role: %s",
			strings.Join(allowed, ", "), role,
		)
	}
	return 0, ""
}
