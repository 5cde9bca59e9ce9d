package system_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/record/recordtest"
	"github.com/yoiioy700/rbac-system/internal/roles"
	"github.com/yoiioy700/rbac-system/internal/shared"
	"github.com/yoiioy700/rbac-system/internal/system"
)

type initRecorder struct {
	admins []string
}

func (r *initRecorder) SystemInitialized(ctx context.Context, admin string) {
	r.admins = append(r.admins, admin)
}

func newService() (*system.Service, *recordtest.Store, *address.Deriver) {
	store := recordtest.New()
	deriver := address.NewDeriver("system-test-seed")
	return system.NewService(store, deriver, nil), store, deriver
}

func TestInitializeActivatesAndSeedsAdminRole(t *testing.T) {
	ctx := context.Background()
	store := recordtest.New()
	deriver := address.NewDeriver("system-test-seed")
	recorder := &initRecorder{}
	svc := system.NewService(store, deriver, recorder)

	state, err := svc.Initialize(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", state.Admin)
	require.EqualValues(t, 1, state.RoleCount)
	require.EqualValues(t, 0, state.UserCount)
	require.True(t, state.Active)
	require.Equal(t, []string{"alice"}, recorder.admins)

	// State record plus admin role record.
	require.Equal(t, 2, store.Len())

	rolesSvc := roles.NewService(store, deriver, nil, nil)
	admin, err := rolesSvc.Get(ctx, roles.AdminRoleName)
	require.NoError(t, err)
	require.Equal(t, system.AdminPermissions(), admin.Permissions)
	require.Len(t, admin.Permissions, 5)
}

func TestInitializeIsOneWay(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()

	first, err := svc.Initialize(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Initialize(ctx, "bob")
	require.ErrorIs(t, err, shared.ErrAlreadyExists)

	// The losing call changed nothing.
	require.Equal(t, 2, store.Len())
	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.Equal(t, first, state)
}

func TestInitializeRequiresCaller(t *testing.T) {
	svc, store, _ := newService()
	_, err := svc.Initialize(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
	require.Equal(t, 0, store.Len())
}

func TestStateBeforeInitializeIsNotFound(t *testing.T) {
	svc, _, _ := newService()
	_, err := svc.State(context.Background())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	// Before initialization nobody is admin.
	require.ErrorIs(t, svc.EnsureAdmin(ctx, "alice"), shared.ErrUnauthorized)

	_, err := svc.Initialize(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmin(ctx, "alice"))
	require.ErrorIs(t, svc.EnsureAdmin(ctx, "bob"), shared.ErrUnauthorized)
	require.ErrorIs(t, svc.EnsureAdmin(ctx, ""), shared.ErrUnauthorized)
}

func TestCountersMutateInsideTransaction(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	_, err := svc.Initialize(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.IncrementRoleCount(ctx, store))
	require.NoError(t, svc.IncrementUserCount(ctx, store))
	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, state.RoleCount)
	require.EqualValues(t, 1, state.UserCount)

	require.NoError(t, svc.DecrementUserCount(ctx, store))
	state, err = svc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, state.UserCount)
}

func TestDecrementUserCountUnderflow(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService()
	_, err := svc.Initialize(ctx, "alice")
	require.NoError(t, err)

	err = svc.DecrementUserCount(ctx, store)
	require.ErrorIs(t, err, shared.ErrInvariantViolation)

	// The failed mutation left the state record intact.
	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, state.UserCount)
	require.Equal(t, "alice", state.Admin)
}
