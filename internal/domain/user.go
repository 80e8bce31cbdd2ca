package domain

import "time"

// User roles. Agents are bound to a single office; bosses see every office.
const (
	RoleBoss  = "boss"
	RoleAgent = "agent"
)

type User struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	OfficeID     *string
	PasswordHash string
	CreatedAt    time.Time
}
