package entity

import "time"

// Roles válidos para User. El rol es el único eje de autorización.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Estados de cuenta. Una cuenta inactiva no puede iniciar sesión.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User representa un usuario del sistema. Los solicitantes (rol user)
// pueden tener una obra asignada.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt, nunca plano después de persistir
	Role         string // admin, user
	ObraID       string // obra asignada (solo rol user, opcional)
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
