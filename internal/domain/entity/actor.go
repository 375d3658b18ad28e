package entity

// Actor es el contexto explícito del usuario autenticado que ejecuta una
// operación. Lo construye la capa HTTP desde los claims del token; el core
// confía en el rol tal cual viene y no mantiene estado de sesión ambiente.
type Actor struct {
	ID     string
	Name   string
	Role   string // admin, user
	ObraID string // obra asignada, vacío para admin
}

// IsAdmin indica si el actor tiene rol administrador.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
