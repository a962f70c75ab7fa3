package entity

import "time"

// Roles válidos para User.
const (
	RoleOwner      = "owner"      // dueño: acceso total
	RoleIncharge   = "incharge"   // encargado de taller o bodega
	RoleShopkeeper = "shopkeeper" // tendero
)

// User operador del sistema. Location es la ubicación de la que responde (vacía para el dueño).
// Las credenciales las administra el proveedor de identidad, no esta API.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string
	Location  Location
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor identidad autenticada que ejecuta una operación. Se pasa explícitamente a cada caso de uso.
type Actor struct {
	UserID   string
	Role     string
	Location Location
}

// IsOwner indica si el actor es el dueño del negocio.
func (a Actor) IsOwner() bool { return a.Role == RoleOwner }
