package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "ADMIN"
	RoleSeller    = "SELLER"
	RoleWarehouse = "WAREHOUSE"
)

// User usuario que registra ingresos y ventas.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt
	Role         string
	Enabled      bool
	CreatedAt    time.Time
}

// Summary vista reducida del usuario (actor del movimiento).
func (u *User) Summary() *PartySummary {
	return &PartySummary{ID: u.ID, Name: u.Username}
}
