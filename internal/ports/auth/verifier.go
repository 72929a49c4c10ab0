package auth

import (
	"context"
	"errors"
)

// Errores normalizados del verifier. El middleware decide el status code
// según cuál sea (expirado e inválido responden mensajes distintos).
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenVerifier verifica un token y devuelve claims o error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
