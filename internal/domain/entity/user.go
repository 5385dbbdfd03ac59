package entity

import "time"

// Roles de usuario. El rol auditor puede consultar la conciliación pero no
// mover inventario.
const (
	RoleAdmin    = "admin"
	RoleAuditor  = "auditor"
	RoleVendedor = "vendedor"
)

// User representa un usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
