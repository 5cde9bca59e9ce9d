package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

// AssignmentSource resolves a user's live role assignment. The boolean is
// false when the user has no assignment, which is not an error.
type AssignmentSource interface {
	RoleNameFor(ctx context.Context, user string) (string, bool, error)
}

// RoleSource resolves a role name to its permission set, returning
// shared.ErrNotFound when no such role exists.
type RoleSource interface {
	PermissionsFor(ctx context.Context, name string) (Set, error)
}

// Engine answers "may principal P perform permission X". It is a pure
// read-side component: it never mutates state, takes no locks, and is safe
// to call concurrently with any other operation.
type Engine struct {
	assignments AssignmentSource
	roles       RoleSource
}

// NewEngine builds an Engine over the assignment ledger and role registry.
func NewEngine(assignments AssignmentSource, roles RoleSource) *Engine {
	return &Engine{assignments: assignments, roles: roles}
}

// CheckPermission resolves the user's assignment and tests exact membership
// of the required permission in the referenced role's set. A user with no
// assignment has no permissions — that returns false, not an error. An
// assignment pointing at a vanished role is a dangling reference and fails
// with shared.ErrRoleNotFound.
func (e *Engine) CheckPermission(ctx context.Context, user string, permission Permission) (bool, error) {
	if !permission.Valid() {
		return false, fmt.Errorf("unknown permission %q: %w", permission, shared.ErrInvalidPermission)
	}
	roleName, assigned, err := e.assignments.RoleNameFor(ctx, user)
	if err != nil {
		return false, err
	}
	if !assigned {
		return false, nil
	}
	set, err := e.roles.PermissionsFor(ctx, roleName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, fmt.Errorf("assignment for %q references role %q: %w", user, roleName, shared.ErrRoleNotFound)
		}
		return false, err
	}
	return set.Has(permission), nil
}
