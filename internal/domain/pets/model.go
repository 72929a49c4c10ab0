package pets

import "time"

// Gender define el sexo del paciente: "male" o "female".
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ValidGender acepta vacío (campo opcional) o uno de los valores del enum.
func ValidGender(s string) bool {
	switch Gender(s) {
	case "", GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// Pet es la ficha de un paciente de la clínica.
//
// Owner es el email de un usuario del auth service. No hay FK: la
// existencia se valida contra el directorio en cada escritura, y nada
// garantiza que el usuario siga existiendo después.
//
// IsActive implementa el soft-delete: una vez en false ninguna operación
// expuesta lo vuelve a true.
type Pet struct {
	ID int64

	Photo   string
	Name    string
	Species string
	Breed   string
	Age     *int
	Weight  *float64
	Gender  Gender

	IsActive bool
	Owner    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
