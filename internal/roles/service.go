package roles

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/record"
)

// StateRegistry is the slice of the system-state service the role registry
// needs: the admin gate plus the role counter, mutated inside the same
// transaction that stores the role record.
type StateRegistry interface {
	EnsureAdmin(ctx context.Context, caller string) error
	IncrementRoleCount(ctx context.Context, tx record.Store) error
}

// Recorder receives audit notifications for role creation.
type Recorder interface {
	RoleCreated(ctx context.Context, actor, role string, permissions []string)
}

// Service manages role records.
type Service struct {
	store    record.Store
	deriver  *address.Deriver
	state    StateRegistry
	recorder Recorder
	now      func() time.Time
}

// NewService builds the role registry. recorder may be nil.
func NewService(store record.Store, deriver *address.Deriver, state StateRegistry, recorder Recorder) *Service {
	return &Service{
		store:    store,
		deriver:  deriver,
		state:    state,
		recorder: recorder,
		now:      time.Now,
	}
}

// Create stores a new role. Only the system admin may create roles; the
// role record and the role_count increment commit in one transaction, so a
// duplicate name leaves both untouched. A retry after a confirmed success
// deterministically fails with shared.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, caller, name string, permissions []string) (Role, error) {
	if err := s.state.EnsureAdmin(ctx, caller); err != nil {
		return Role{}, err
	}
	if err := ValidateName(name); err != nil {
		return Role{}, err
	}
	set, err := rbac.ParseSet(permissions)
	if err != nil {
		return Role{}, err
	}

	role := Role{Name: name, Permissions: set, CreatedAt: s.now().UTC()}
	rec, err := encodeRole(s.deriver, role)
	if err != nil {
		return Role{}, err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx record.Store) error {
		if err := tx.Create(ctx, rec); err != nil {
			return fmt.Errorf("role %q: %w", name, err)
		}
		return s.state.IncrementRoleCount(ctx, tx)
	})
	if err != nil {
		return Role{}, err
	}

	if s.recorder != nil {
		s.recorder.RoleCreated(ctx, caller, name, set.Strings())
	}
	return role, nil
}

// Get fetches a role by name.
func (s *Service) Get(ctx context.Context, name string) (Role, error) {
	addr, _ := s.deriver.Derive(Namespace, []byte(name))
	rec, err := s.store.Read(ctx, addr)
	if err != nil {
		return Role{}, fmt.Errorf("role %q: %w", name, err)
	}
	var role Role
	if err := record.Decode(rec.Body, &role); err != nil {
		return Role{}, fmt.Errorf("role %q: decode: %w", name, err)
	}
	return role, nil
}

// List returns every role, ordered by name.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	records, err := s.store.List(ctx, Namespace)
	if err != nil {
		return nil, err
	}
	out := make([]Role, 0, len(records))
	for _, rec := range records {
		var role Role
		if err := record.Decode(rec.Body, &role); err != nil {
			return nil, fmt.Errorf("role record %s: decode: %w", rec.Address, err)
		}
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PermissionsFor implements rbac.RoleSource.
func (s *Service) PermissionsFor(ctx context.Context, name string) (rbac.Set, error) {
	role, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

// ResolveRole reports whether a role exists, returning the underlying
// shared.ErrNotFound when it does not.
func (s *Service) ResolveRole(ctx context.Context, name string) error {
	_, err := s.Get(ctx, name)
	return err
}

// AdminRecord builds the record for the auto-created admin role, which
// explicitly lists all five permissions. System initialization stores it in
// the same transaction that creates the system state.
func AdminRecord(deriver *address.Deriver, createdAt time.Time) (record.Record, error) {
	return encodeRole(deriver, Role{
		Name:        AdminRoleName,
		Permissions: rbac.All(),
		CreatedAt:   createdAt,
	})
}

func encodeRole(deriver *address.Deriver, role Role) (record.Record, error) {
	addr, bump := deriver.Derive(Namespace, []byte(role.Name))
	body, err := record.Encode(role)
	if err != nil {
		return record.Record{}, fmt.Errorf("role %q: encode: %w", role.Name, err)
	}
	return record.Record{
		Address:   addr,
		Namespace: Namespace,
		Bump:      bump,
		Schema:    Schema,
		Body:      body,
		CreatedAt: role.CreatedAt,
	}, nil
}
