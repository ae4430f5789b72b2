package domain

import (
	"errors"
	"time"
)

// User represents a system user. Registration creates the user together
// with its credit account; users are deactivated, never deleted.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	AccountID string
	CreatedAt time.Time
	UpdatedAt time.Time
	Active    bool
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin may trigger every ledger operation, including settlement.
	RoleAdmin Role = "admin"

	// RoleClient requests bookings and is debited for them.
	RoleClient Role = "client"

	// RoleWorker clocks in/out and is credited on settlement.
	RoleWorker Role = "worker"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleClient: true,
	RoleWorker: true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanSettle reports whether the role may approve a booking completion,
// which credits the worker's account.
func (r Role) CanSettle() bool {
	return r == RoleAdmin
}

// CanClock reports whether the role may record clock events.
func (r Role) CanClock() bool {
	return r == RoleAdmin || r == RoleWorker
}

// CanBook reports whether the role may create or edit bookings.
func (r Role) CanBook() bool {
	return r == RoleAdmin || r == RoleClient
}

// AccountKindForRole maps a registration role to its account kind.
func AccountKindForRole(r Role) AccountKind {
	if r == RoleWorker {
		return AccountKindWorker
	}

	return AccountKindClient
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
