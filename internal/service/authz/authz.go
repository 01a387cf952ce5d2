// Package authz decides which roles may invoke which operations.
package authz

import (
	"errors"

	"github.com/fieldcrew/maintenance-api/internal/domain"
)

// Operation names a protected action.
type Operation string

// Task operations.
const (
	OpListTasks   Operation = "tasks.list"
	OpGetTask     Operation = "tasks.get"
	OpCreateTask  Operation = "tasks.create"
	OpUpdateTask  Operation = "tasks.update"
	OpDeleteTask  Operation = "tasks.delete"
	OpPerformTask Operation = "tasks.perform"
)

var (
	// ErrUnauthenticated is returned when no actor is present.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the actor's role may not run the operation.
	ErrForbidden = errors.New("forbidden")
)

// allowed lists the roles permitted per operation. Operations missing from
// the table are open to any authenticated actor.
var allowed = map[Operation][]domain.Role{
	OpListTasks:   {domain.RoleTechnician, domain.RoleManager},
	OpGetTask:     {domain.RoleTechnician, domain.RoleManager},
	OpCreateTask:  {domain.RoleTechnician},
	OpUpdateTask:  {domain.RoleTechnician},
	OpDeleteTask:  {domain.RoleManager},
	OpPerformTask: {domain.RoleTechnician},
}

// Authorize returns nil when actor may run op.
func Authorize(actor *domain.Actor, op Operation) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	roles, ok := allowed[op]
	if !ok {
		return nil
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// AllowedRoles returns the roles permitted to run op, or nil when op is
// unrestricted.
func AllowedRoles(op Operation) []domain.Role {
	roles, ok := allowed[op]
	if !ok {
		return nil
	}
	out := make([]domain.Role, len(roles))
	copy(out, roles)
	return out
}
