package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pet-patients-service/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	bearerKey ctxKey = "bearer"
)

// RequireAuth exige un Bearer token verificable y deja los claims (y el
// header Authorization crudo, para reenviarlo a upstreams) en el context.
//
// - Sin header o con prefijo malformado => 401.
// - Token expirado => 401 con mensaje propio (distinto de inválido).
// - Token inválido / firma rota => 401.
// - Cualquier otro error del verifier => 500.
//
// Si verifier == nil (modo dev, igual que en tests), acepta identidad por
// headers X-Debug-User-ID / X-Debug-User-Email / X-Debug-User-Role.
func RequireAuth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				devAuth(next, w, r)
				return
			}

			raw := r.Header.Get("Authorization")
			token := bearerToken(raw)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					writeError(w, http.StatusUnauthorized, "Token has expired.")
				case errors.Is(err, auth.ErrTokenInvalid):
					writeError(w, http.StatusUnauthorized, "Invalid token.")
				default:
					writeError(w, http.StatusInternalServerError, "Error verifying token.")
				}
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, bearerKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims devuelve los claims del request, si los hay.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// GetBearer devuelve el header Authorization original ("Bearer <token>")
// para reenviar al auth service.
func GetBearer(ctx context.Context) string {
	s, _ := ctx.Value(bearerKey).(string)
	return s
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func devAuth(next http.Handler, w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.Header.Get("X-Debug-User-Email"))
	if email == "" {
		writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	id, _ := strconv.ParseInt(strings.TrimSpace(r.Header.Get("X-Debug-User-ID")), 10, 64)
	if id == 0 {
		id = 1
	}

	claims := auth.Claims{
		UserID: id,
		Email:  email,
		Role:   auth.Role{Name: strings.TrimSpace(r.Header.Get("X-Debug-User-Role"))},
	}

	ctx := context.WithValue(r.Context(), claimsKey, claims)
	ctx = context.WithValue(ctx, bearerKey, r.Header.Get("Authorization"))
	next.ServeHTTP(w, r.WithContext(ctx))
}
