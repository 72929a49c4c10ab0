package pets

import "context"

// ListFilter pagina y (opcionalmente) restringe por owner.
type ListFilter struct {
	Owner  string // si no está vacío, solo filas con ese owner
	Limit  int
	Offset int
}

type Repository interface {
	// Create persiste la ficha y devuelve la fila con el ID asignado.
	Create(ctx context.Context, p Pet) (Pet, error)

	// GetByID devuelve la ficha aunque esté inactiva; el service decide
	// si un inactivo cuenta como not-found o como conflicto. Un ID
	// inexistente es ErrNotFound; cualquier otro error es infra (y no
	// debe disfrazarse de not-found).
	GetByID(ctx context.Context, id int64) (Pet, error)

	// ListActive devuelve solo fichas activas, createdAt descendente,
	// junto con el total (para calcular páginas).
	ListActive(ctx context.Context, f ListFilter) ([]Pet, int, error)

	Update(ctx context.Context, p Pet) error
}
