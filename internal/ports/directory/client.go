// Package directory define el puerto hacia el auth service como
// directorio de usuarios. Este servicio no guarda copia local de
// usuarios: toda consulta es un round-trip al upstream.
package directory

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable indica que el auth service no respondió (transporte,
// timeout o respuesta inválida).
var ErrUnavailable = errors.New("user directory unavailable")

// User es la forma mínima de usuario que devuelve el auth service.
// Con tags JSON porque el proxy de /users los re-serializa tal cual.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  *Role  `json:"role,omitempty"`
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client es el puerto que consume el resto del servicio.
//
// bearer es el header Authorization original del caller ("Bearer <tok>")
// y se reenvía al upstream cuando está presente.
type Client interface {
	// ListUsersRaw devuelve el envelope paginado del upstream sin tocar,
	// para el proxy de /users.
	ListUsersRaw(ctx context.Context, page, limit int, bearer string) (json.RawMessage, error)

	// ListUsersByRole trae hasta el tope de escaneo y filtra por rol
	// del lado del cliente (el upstream no expone filtro por rol).
	ListUsersByRole(ctx context.Context, role, bearer string) ([]User, error)

	// UserExistsByEmail escanea el directorio buscando el email.
	// Ante fallo de transporte devuelve false (fail closed: un owner que
	// no se puede confirmar no habilita escrituras), nunca error.
	UserExistsByEmail(ctx context.Context, email, bearer string) bool
}
