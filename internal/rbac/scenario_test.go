package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/assignments"
	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/record/recordtest"
	"github.com/yoiioy700/rbac-system/internal/roles"
	"github.com/yoiioy700/rbac-system/internal/shared"
	"github.com/yoiioy700/rbac-system/internal/system"
)

// TestFullLifecycle drives the whole stack over an in-memory store:
// initialize, create a role, assign it, check permissions, revoke, and
// verify the counters track every step.
func TestFullLifecycle(t *testing.T) {
	ctx := context.Background()
	store := recordtest.New()
	deriver := address.NewDeriver("lifecycle-seed")

	systemSvc := system.NewService(store, deriver, nil)
	rolesSvc := roles.NewService(store, deriver, systemSvc, nil)
	assignSvc := assignments.NewService(store, deriver, systemSvc, rolesSvc, nil)
	engine := rbac.NewEngine(assignSvc, rolesSvc)

	// Initialize as alice.
	state, err := systemSvc.Initialize(ctx, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, state.RoleCount)

	// Create manager with read, create, update.
	_, err = rolesSvc.Create(ctx, "alice", "manager", []string{"read", "create", "update"})
	require.NoError(t, err)
	state, err = systemSvc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, state.RoleCount)

	// Assign manager to bob.
	_, err = assignSvc.Assign(ctx, "alice", "bob", "manager")
	require.NoError(t, err)
	state, err = systemSvc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, state.UserCount)

	// Bob holds exactly the manager permissions.
	for perm, want := range map[rbac.Permission]bool{
		rbac.PermissionRead:   true,
		rbac.PermissionCreate: true,
		rbac.PermissionUpdate: true,
		rbac.PermissionDelete: false,
		rbac.PermissionAdmin:  false,
	} {
		allowed, err := engine.CheckPermission(ctx, "bob", perm)
		require.NoError(t, err)
		require.Equal(t, want, allowed, "permission %s", perm)
	}

	// Alice carries the admin identity but no assignment, so the engine
	// grants her nothing until she is assigned a role herself.
	allowed, err := engine.CheckPermission(ctx, "alice", rbac.PermissionAdmin)
	require.NoError(t, err)
	require.False(t, allowed)

	_, err = assignSvc.Assign(ctx, "alice", "alice", roles.AdminRoleName)
	require.NoError(t, err)
	allowed, err = engine.CheckPermission(ctx, "alice", rbac.PermissionAdmin)
	require.NoError(t, err)
	require.True(t, allowed)

	// Revoke bob.
	require.NoError(t, assignSvc.Revoke(ctx, "alice", "bob"))
	state, err = systemSvc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, state.UserCount)

	allowed, err = engine.CheckPermission(ctx, "bob", rbac.PermissionRead)
	require.NoError(t, err)
	require.False(t, allowed)

	_, err = assignSvc.Get(ctx, "bob")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

// TestExecutorOverRealServices checks the action gate end to end, including
// that a denial leaves no trace in the store.
func TestExecutorOverRealServices(t *testing.T) {
	ctx := context.Background()
	store := recordtest.New()
	deriver := address.NewDeriver("executor-seed")

	systemSvc := system.NewService(store, deriver, nil)
	rolesSvc := roles.NewService(store, deriver, systemSvc, nil)
	assignSvc := assignments.NewService(store, deriver, systemSvc, rolesSvc, nil)
	engine := rbac.NewEngine(assignSvc, rolesSvc)

	_, err := systemSvc.Initialize(ctx, "alice")
	require.NoError(t, err)
	_, err = rolesSvc.Create(ctx, "alice", "viewer", []string{"read"})
	require.NoError(t, err)
	_, err = assignSvc.Assign(ctx, "alice", "bob", "viewer")
	require.NoError(t, err)

	effects := 0
	executor := rbac.NewExecutor(engine, nil, func(ctx context.Context, actor string, action rbac.Action) error {
		effects++
		return nil
	})

	require.NoError(t, executor.Execute(ctx, "bob", rbac.ActionReadResource))
	require.Equal(t, 1, effects)

	before := store.Len()
	err = executor.Execute(ctx, "bob", rbac.ActionDeleteResource)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
	require.Equal(t, 1, effects)
	require.Equal(t, before, store.Len())
}
