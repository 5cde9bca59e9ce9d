package roles_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/record/recordtest"
	"github.com/yoiioy700/rbac-system/internal/roles"
	"github.com/yoiioy700/rbac-system/internal/shared"
	"github.com/yoiioy700/rbac-system/internal/system"
)

type roleRecorder struct {
	created []string
}

func (r *roleRecorder) RoleCreated(ctx context.Context, actor, role string, permissions []string) {
	r.created = append(r.created, role)
}

// fixture wires a role service over an initialized system, the way the
// binaries do.
func fixture(t *testing.T) (*roles.Service, *system.Service, *recordtest.Store) {
	t.Helper()
	store := recordtest.New()
	deriver := address.NewDeriver("roles-test-seed")
	systemSvc := system.NewService(store, deriver, nil)
	_, err := systemSvc.Initialize(context.Background(), "alice")
	require.NoError(t, err)
	return roles.NewService(store, deriver, systemSvc, nil), systemSvc, store
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, systemSvc, _ := fixture(t)

	created, err := svc.Create(ctx, "alice", "manager", []string{"read", "create", "update"})
	require.NoError(t, err)
	require.Equal(t, "manager", created.Name)

	got, err := svc.Get(ctx, "manager")
	require.NoError(t, err)
	require.Equal(t, rbac.Set{rbac.PermissionRead, rbac.PermissionCreate, rbac.PermissionUpdate}, got.Permissions)
	require.False(t, got.Permissions.Has(rbac.PermissionDelete))

	state, err := systemSvc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, state.RoleCount)
}

func TestCreateDuplicateLeavesOriginalUntouched(t *testing.T) {
	ctx := context.Background()
	svc, systemSvc, _ := fixture(t)

	_, err := svc.Create(ctx, "alice", "manager", []string{"read"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice", "manager", []string{"read", "delete"})
	require.ErrorIs(t, err, shared.ErrAlreadyExists)

	got, err := svc.Get(ctx, "manager")
	require.NoError(t, err)
	require.Equal(t, rbac.Set{rbac.PermissionRead}, got.Permissions)

	// The failed create did not bump role_count either.
	state, err := systemSvc.State(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, state.RoleCount)
}

func TestCreateRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, store := fixture(t)
	before := store.Len()

	_, err := svc.Create(ctx, "bob", "manager", []string{"read"})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
	require.Equal(t, before, store.Len())
}

func TestCreateValidatesName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := fixture(t)

	for _, name := range []string{"", "Manager", "ro le", "rôle", strings.Repeat("a", 33)} {
		_, err := svc.Create(ctx, "alice", name, []string{"read"})
		require.ErrorIs(t, err, shared.ErrInvalidName, "name %q", name)
	}

	// 32 bytes is the inclusive limit.
	_, err := svc.Create(ctx, "alice", strings.Repeat("a", 32), []string{"read"})
	require.NoError(t, err)
}

func TestCreateValidatesPermissions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := fixture(t)

	_, err := svc.Create(ctx, "alice", "manager", []string{"read", "fly"})
	require.ErrorIs(t, err, shared.ErrInvalidPermission)

	// Empty set is a legal role: it grants nothing.
	role, err := svc.Create(ctx, "alice", "bystander", nil)
	require.NoError(t, err)
	require.Empty(t, role.Permissions)
}

func TestCreateNotifiesRecorder(t *testing.T) {
	ctx := context.Background()
	store := recordtest.New()
	deriver := address.NewDeriver("roles-test-seed")
	systemSvc := system.NewService(store, deriver, nil)
	_, err := systemSvc.Initialize(ctx, "alice")
	require.NoError(t, err)

	recorder := &roleRecorder{}
	svc := roles.NewService(store, deriver, systemSvc, recorder)
	_, err = svc.Create(ctx, "alice", "manager", []string{"read"})
	require.NoError(t, err)
	require.Equal(t, []string{"manager"}, recorder.created)
}

func TestGetMissingRole(t *testing.T) {
	svc, _, _ := fixture(t)
	_, err := svc.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListOrdersByName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := fixture(t)

	_, err := svc.Create(ctx, "alice", "viewer", []string{"read"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "alice", "manager", []string{"read", "update"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, role := range list {
		names[i] = role.Name
	}
	require.Equal(t, []string{roles.AdminRoleName, "manager", "viewer"}, names)
}
