package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/rbac"
	"github.com/yoiioy700/rbac-system/internal/record"
	"github.com/yoiioy700/rbac-system/internal/roles"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Recorder receives the initialization audit notification.
type Recorder interface {
	SystemInitialized(ctx context.Context, admin string)
}

// Service owns the singleton system state record. It is also the single
// source of the admin gate: every privileged operation funnels through
// EnsureAdmin rather than re-implementing the check.
type Service struct {
	store    record.Store
	deriver  *address.Deriver
	addr     address.Address
	bump     byte
	recorder Recorder
	now      func() time.Time
}

// NewService builds the system service. recorder may be nil.
func NewService(store record.Store, deriver *address.Deriver, recorder Recorder) *Service {
	addr, bump := deriver.Derive(Namespace)
	return &Service{
		store:    store,
		deriver:  deriver,
		addr:     addr,
		bump:     bump,
		recorder: recorder,
		now:      time.Now,
	}
}

// Initialize activates the system with the caller as admin and auto-creates
// the admin role carrying all five permissions; role_count starts at 1. The
// transition is one-way: a second call fails with shared.ErrAlreadyExists
// and changes nothing.
func (s *Service) Initialize(ctx context.Context, caller string) (State, error) {
	if caller == "" {
		return State{}, fmt.Errorf("initialize requires a caller identity: %w", shared.ErrUnauthorized)
	}

	now := s.now().UTC()
	state := State{Admin: caller, RoleCount: 1, UserCount: 0, Active: true}
	body, err := record.Encode(state)
	if err != nil {
		return State{}, fmt.Errorf("system state: encode: %w", err)
	}
	adminRole, err := roles.AdminRecord(s.deriver, now)
	if err != nil {
		return State{}, err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx record.Store) error {
		if err := tx.Create(ctx, record.Record{
			Address:   s.addr,
			Namespace: Namespace,
			Bump:      s.bump,
			Schema:    Schema,
			Body:      body,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("system state: %w", err)
		}
		if err := tx.Create(ctx, adminRole); err != nil {
			return fmt.Errorf("admin role: %w", err)
		}
		return nil
	})
	if err != nil {
		return State{}, err
	}

	if s.recorder != nil {
		s.recorder.SystemInitialized(ctx, caller)
	}
	return state, nil
}

// State reads the current system state. Fails with shared.ErrNotFound
// before initialization.
func (s *Service) State(ctx context.Context) (State, error) {
	rec, err := s.store.Read(ctx, s.addr)
	if err != nil {
		return State{}, fmt.Errorf("system state: %w", err)
	}
	var state State
	if err := record.Decode(rec.Body, &state); err != nil {
		return State{}, fmt.Errorf("system state: decode: %w", err)
	}
	return state, nil
}

// EnsureAdmin verifies the caller is the system admin. Before
// initialization nobody holds admin standing, so every caller is rejected.
func (s *Service) EnsureAdmin(ctx context.Context, caller string) error {
	if caller == "" {
		return fmt.Errorf("missing caller identity: %w", shared.ErrUnauthorized)
	}
	state, err := s.State(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("system not initialized: %w", shared.ErrUnauthorized)
		}
		return err
	}
	if state.Admin != caller {
		return fmt.Errorf("caller %q is not the system admin: %w", caller, shared.ErrUnauthorized)
	}
	return nil
}

// AdminPermissions returns the permission set of the auto-created admin
// role, spelled out because admin does not imply the other four.
func AdminPermissions() rbac.Set {
	return rbac.All()
}

// IncrementRoleCount bumps role_count inside the caller's transaction.
func (s *Service) IncrementRoleCount(ctx context.Context, tx record.Store) error {
	return s.mutateState(ctx, tx, func(state *State) error {
		state.RoleCount++
		return nil
	})
}

// IncrementUserCount bumps user_count inside the caller's transaction.
func (s *Service) IncrementUserCount(ctx context.Context, tx record.Store) error {
	return s.mutateState(ctx, tx, func(state *State) error {
		state.UserCount++
		return nil
	})
}

// DecrementUserCount lowers user_count inside the caller's transaction. An
// underflow means the counters and the live records disagree — that is
// corruption, and the operation aborts with shared.ErrInvariantViolation.
func (s *Service) DecrementUserCount(ctx context.Context, tx record.Store) error {
	return s.mutateState(ctx, tx, func(state *State) error {
		if state.UserCount == 0 {
			return fmt.Errorf("user_count underflow: %w", shared.ErrInvariantViolation)
		}
		state.UserCount--
		return nil
	})
}

func (s *Service) mutateState(ctx context.Context, tx record.Store, fn func(*State) error) error {
	return tx.Mutate(ctx, s.addr, func(rec *record.Record) error {
		var state State
		if err := record.Decode(rec.Body, &state); err != nil {
			return fmt.Errorf("system state: decode: %w", err)
		}
		if err := fn(&state); err != nil {
			return err
		}
		body, err := record.Encode(state)
		if err != nil {
			return fmt.Errorf("system state: encode: %w", err)
		}
		rec.Body = body
		return nil
	})
}
