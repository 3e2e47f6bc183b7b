package entity

import "time"

// Roles de usuario.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string // único
	Email        string
	PasswordHash string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
