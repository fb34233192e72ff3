package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User representa un usuario del sistema. El core solo necesita su ID para
// atribuir movimientos de inventario; la autorización vive en la capa de borde.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, staff, customer
	Email        string
	CreatedAt    time.Time
}
