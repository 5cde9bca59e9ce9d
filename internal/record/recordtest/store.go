// Package recordtest provides an in-memory record.Store for service tests.
// It honors the same contract as the Postgres store: create-once per
// address, all-or-nothing mutation, destroyed slots reusable.
package recordtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/record"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Store is a map-backed record.Store.
type Store struct {
	mu      sync.Mutex
	records map[address.Address]record.Record
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[address.Address]record.Record)}
}

// Create stores a record, failing when the address is occupied.
func (s *Store) Create(ctx context.Context, rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.Address]; ok {
		return fmt.Errorf("record at %s: %w", rec.Address, shared.ErrAlreadyExists)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = rec.CreatedAt
	s.records[rec.Address] = cloneRecord(rec)
	return nil
}

// Read returns a copy of the record at addr.
func (s *Store) Read(ctx context.Context, addr address.Address) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[addr]
	if !ok {
		return record.Record{}, fmt.Errorf("record at %s: %w", addr, shared.ErrNotFound)
	}
	return cloneRecord(rec), nil
}

// Mutate applies fn to a copy and commits it only when fn succeeds.
func (s *Store) Mutate(ctx context.Context, addr address.Address, fn func(*record.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[addr]
	if !ok {
		return fmt.Errorf("record at %s: %w", addr, shared.ErrNotFound)
	}
	work := cloneRecord(rec)
	if err := fn(&work); err != nil {
		return err
	}
	work.UpdatedAt = time.Now().UTC()
	s.records[addr] = work
	return nil
}

// Destroy removes the record, freeing the slot.
func (s *Store) Destroy(ctx context.Context, addr address.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[addr]; !ok {
		return fmt.Errorf("record at %s: %w", addr, shared.ErrNotFound)
	}
	delete(s.records, addr)
	return nil
}

// List returns records in a namespace ordered by creation time.
func (s *Store) List(ctx context.Context, namespace string) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []record.Record
	for _, rec := range s.records {
		if rec.Namespace == namespace {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Address.String() < out[j].Address.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// WithTx runs fn against a snapshot and commits it atomically on success.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx record.Store) error) error {
	s.mu.Lock()
	snapshot := &Store{records: make(map[address.Address]record.Record, len(s.records))}
	for addr, rec := range s.records {
		snapshot.records[addr] = cloneRecord(rec)
	}
	s.mu.Unlock()

	if err := fn(ctx, snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	s.records = snapshot.records
	s.mu.Unlock()
	return nil
}

// Len reports how many live records the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func cloneRecord(rec record.Record) record.Record {
	out := rec
	out.Body = append([]byte(nil), rec.Body...)
	return out
}
