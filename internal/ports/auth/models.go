package auth

// Nombres de rol que maneja el auth service.
const (
	RoleAdmin        = "admin"
	RoleVeterinarian = "veterinarian"
	RoleReceptionist = "receptionist"
	RoleClient       = "client"
)

// Role es el rol que el auth service le asignó al usuario.
type Role struct {
	ID   int64
	Name string
}

// Claims representa la identidad extraída del token. Vive solo durante
// el request; este servicio no persiste usuarios.
type Claims struct {
	UserID int64
	Email  string
	Role   Role
}
