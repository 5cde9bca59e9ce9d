package rbac

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

type stubAssignments struct {
	role     string
	assigned bool
	err      error
}

func (s stubAssignments) RoleNameFor(ctx context.Context, user string) (string, bool, error) {
	return s.role, s.assigned, s.err
}

type stubRoles struct {
	sets map[string]Set
}

func (s stubRoles) PermissionsFor(ctx context.Context, name string) (Set, error) {
	set, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("role %q: %w", name, shared.ErrNotFound)
	}
	return set, nil
}

func TestCheckPermissionUnassignedUserIsFalseNotError(t *testing.T) {
	engine := NewEngine(stubAssignments{}, stubRoles{})
	for _, perm := range All() {
		allowed, err := engine.CheckPermission(context.Background(), "nobody", perm)
		if err != nil {
			t.Fatalf("check %s: %v", perm, err)
		}
		if allowed {
			t.Errorf("unassigned user granted %s", perm)
		}
	}
}

func TestCheckPermissionExactMembership(t *testing.T) {
	engine := NewEngine(
		stubAssignments{role: "viewer", assigned: true},
		stubRoles{sets: map[string]Set{"viewer": {PermissionRead}}},
	)
	allowed, err := engine.CheckPermission(context.Background(), "alice", PermissionRead)
	if err != nil || !allowed {
		t.Fatalf("read: allowed=%t err=%v, want true", allowed, err)
	}
	allowed, err = engine.CheckPermission(context.Background(), "alice", PermissionCreate)
	if err != nil || allowed {
		t.Fatalf("create: allowed=%t err=%v, want false", allowed, err)
	}
}

func TestCheckPermissionDanglingRoleIsError(t *testing.T) {
	engine := NewEngine(
		stubAssignments{role: "ghost", assigned: true},
		stubRoles{sets: map[string]Set{}},
	)
	_, err := engine.CheckPermission(context.Background(), "alice", PermissionRead)
	if !errors.Is(err, shared.ErrRoleNotFound) {
		t.Fatalf("got %v, want ErrRoleNotFound", err)
	}
}

func TestCheckPermissionRejectsUnknownPermission(t *testing.T) {
	engine := NewEngine(stubAssignments{}, stubRoles{})
	_, err := engine.CheckPermission(context.Background(), "alice", Permission("fly"))
	if !errors.Is(err, shared.ErrInvalidPermission) {
		t.Fatalf("got %v, want ErrInvalidPermission", err)
	}
}
