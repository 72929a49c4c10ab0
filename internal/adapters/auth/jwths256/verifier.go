// Package jwths256 implementa auth.TokenVerifier para los tokens HS256
// que emite el auth service. El token es autocontenido: se verifica
// contra el secreto compartido, sin round-trip al upstream.
package jwths256

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-patients-service/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("jwt verifier not configured")

// tokenClaims refleja el payload que firma el auth service:
// { id, email, role: { id, name } } + claims registrados (exp, iat).
type tokenClaims struct {
	jwt.RegisteredClaims
	ID    int64     `json:"id"`
	Email string    `json:"email"`
	Role  roleClaim `json:"role"`
}

type roleClaim struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(strings.TrimSpace(secret))}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrTokenInvalid
	}

	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, auth.ErrTokenExpired
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, auth.ErrTokenInvalid
	}

	if tc.ID == 0 {
		return auth.Claims{}, fmt.Errorf("%w: missing user id", auth.ErrTokenInvalid)
	}

	return auth.Claims{
		UserID: tc.ID,
		Email:  strings.TrimSpace(tc.Email),
		Role: auth.Role{
			ID:   tc.Role.ID,
			Name: strings.TrimSpace(tc.Role.Name),
		},
	}, nil
}
