package rbac

import (
	"context"
	"fmt"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Action names a business operation gated by a permission.
type Action string

const (
	ActionReadResource   Action = "resource.read"
	ActionCreateResource Action = "resource.create"
	ActionUpdateResource Action = "resource.update"
	ActionDeleteResource Action = "resource.delete"
	ActionAdminOperation Action = "system.admin"
)

// actionPermissions is the fixed action-to-permission table. Actions outside
// it are rejected, never defaulted.
var actionPermissions = map[Action]Permission{
	ActionReadResource:   PermissionRead,
	ActionCreateResource: PermissionCreate,
	ActionUpdateResource: PermissionUpdate,
	ActionDeleteResource: PermissionDelete,
	ActionAdminOperation: PermissionAdmin,
}

// RequiredPermission returns the permission an action demands.
func (a Action) RequiredPermission() (Permission, bool) {
	perm, ok := actionPermissions[a]
	return perm, ok
}

// Recorder receives audit notifications for executed actions.
type Recorder interface {
	ActionExecuted(ctx context.Context, actor, action, permission string)
}

// EffectFunc performs the action's side effect once authorization passes.
type EffectFunc func(ctx context.Context, actor string, action Action) error

// Executor gates action execution behind the engine. The permission check
// always runs first: a denied call produces no observable effect beyond the
// returned error.
type Executor struct {
	engine   *Engine
	recorder Recorder
	effect   EffectFunc
}

// NewExecutor builds an Executor. recorder and effect may be nil; a nil
// effect makes the allowed path a no-op, which is the base contract.
func NewExecutor(engine *Engine, recorder Recorder, effect EffectFunc) *Executor {
	return &Executor{engine: engine, recorder: recorder, effect: effect}
}

// Execute maps the action to its required permission, checks the caller,
// and runs the effect only on an allow decision.
func (x *Executor) Execute(ctx context.Context, caller string, action Action) error {
	permission, ok := action.RequiredPermission()
	if !ok {
		return fmt.Errorf("action %q: %w", action, shared.ErrInvalidAction)
	}
	allowed, err := x.engine.CheckPermission(ctx, caller, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("action %s requires %s: %w", action, permission, shared.ErrPermissionDenied)
	}
	if x.effect != nil {
		if err := x.effect(ctx, caller, action); err != nil {
			return err
		}
	}
	if x.recorder != nil {
		x.recorder.ActionExecuted(ctx, caller, string(action), string(permission))
	}
	return nil
}
