package domain

import "time"

// UserRole enumerates office staff roles.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleOperator UserRole = "OPERATOR"
)

// User is an office staff account able to log in and drive the planner.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}
