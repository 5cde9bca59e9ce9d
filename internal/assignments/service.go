package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/record"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// StateRegistry is the slice of the system-state service the ledger needs:
// the admin gate plus the user counter, mutated inside the transaction that
// creates or destroys the assignment record.
type StateRegistry interface {
	EnsureAdmin(ctx context.Context, caller string) error
	IncrementUserCount(ctx context.Context, tx record.Store) error
	DecrementUserCount(ctx context.Context, tx record.Store) error
}

// RoleResolver confirms a role name resolves to a live role, returning
// shared.ErrNotFound when it does not.
type RoleResolver interface {
	ResolveRole(ctx context.Context, name string) error
}

// Recorder receives audit notifications for assignment changes.
type Recorder interface {
	RoleAssigned(ctx context.Context, actor, user, role string)
	RoleRevoked(ctx context.Context, actor, user string)
}

// Service manages user-role assignment records.
type Service struct {
	store    record.Store
	deriver  *address.Deriver
	state    StateRegistry
	roles    RoleResolver
	recorder Recorder
	now      func() time.Time
}

// NewService builds the assignment ledger. recorder may be nil.
func NewService(store record.Store, deriver *address.Deriver, state StateRegistry, roles RoleResolver, recorder Recorder) *Service {
	return &Service{
		store:    store,
		deriver:  deriver,
		state:    state,
		roles:    roles,
		recorder: recorder,
		now:      time.Now,
	}
}

// Assign binds a role to a user. Admin-only. The create-once semantics of
// the user-derived address guarantee that of two racing assigns exactly one
// succeeds and the other observes shared.ErrAlreadyAssigned; the same holds
// for a retry after a confirmed success.
func (s *Service) Assign(ctx context.Context, caller, user, roleName string) (Assignment, error) {
	if err := s.state.EnsureAdmin(ctx, caller); err != nil {
		return Assignment{}, err
	}
	if user == "" {
		return Assignment{}, fmt.Errorf("user identity is empty: %w", shared.ErrInvalidName)
	}
	if err := s.roles.ResolveRole(ctx, roleName); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Assignment{}, fmt.Errorf("role %q: %w", roleName, shared.ErrRoleNotFound)
		}
		return Assignment{}, err
	}

	asg := Assignment{
		User:       user,
		Role:       roleName,
		AssignedAt: s.now().UTC(),
		AssignedBy: caller,
	}
	rec, err := encodeAssignment(s.deriver, asg)
	if err != nil {
		return Assignment{}, err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx record.Store) error {
		if err := tx.Create(ctx, rec); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return fmt.Errorf("user %q: %w", user, shared.ErrAlreadyAssigned)
			}
			return err
		}
		return s.state.IncrementUserCount(ctx, tx)
	})
	if err != nil {
		return Assignment{}, err
	}

	if s.recorder != nil {
		s.recorder.RoleAssigned(ctx, caller, user, roleName)
	}
	return asg, nil
}

// Revoke destroys the user's assignment record, freeing the slot for a
// later reassignment, and decrements user_count in the same transaction.
func (s *Service) Revoke(ctx context.Context, caller, user string) error {
	if err := s.state.EnsureAdmin(ctx, caller); err != nil {
		return err
	}
	addr, _ := s.deriver.Derive(Namespace, []byte(user))

	err := s.store.WithTx(ctx, func(ctx context.Context, tx record.Store) error {
		if err := tx.Destroy(ctx, addr); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("user %q has no assignment: %w", user, shared.ErrNotFound)
			}
			return err
		}
		return s.state.DecrementUserCount(ctx, tx)
	})
	if err != nil {
		return err
	}

	if s.recorder != nil {
		s.recorder.RoleRevoked(ctx, caller, user)
	}
	return nil
}

// Get fetches the user's live assignment.
func (s *Service) Get(ctx context.Context, user string) (Assignment, error) {
	addr, _ := s.deriver.Derive(Namespace, []byte(user))
	rec, err := s.store.Read(ctx, addr)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Assignment{}, fmt.Errorf("user %q has no assignment: %w", user, shared.ErrNotFound)
		}
		return Assignment{}, err
	}
	var asg Assignment
	if err := record.Decode(rec.Body, &asg); err != nil {
		return Assignment{}, fmt.Errorf("assignment for %q: decode: %w", user, err)
	}
	return asg, nil
}

// RoleNameFor implements rbac.AssignmentSource. Absence of an assignment is
// reported through the boolean, not as an error.
func (s *Service) RoleNameFor(ctx context.Context, user string) (string, bool, error) {
	asg, err := s.Get(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return asg.Role, true, nil
}

func encodeAssignment(deriver *address.Deriver, asg Assignment) (record.Record, error) {
	addr, bump := deriver.Derive(Namespace, []byte(asg.User))
	body, err := record.Encode(asg)
	if err != nil {
		return record.Record{}, fmt.Errorf("assignment for %q: encode: %w", asg.User, err)
	}
	return record.Record{
		Address:   addr,
		Namespace: Namespace,
		Bump:      bump,
		Schema:    Schema,
		Body:      body,
		CreatedAt: asg.AssignedAt,
	}, nil
}
