// Package record abstracts the persistence substrate: fixed-schema records
// living at deterministically derived addresses. The store is the atomicity
// unit the rest of the system relies on — a mutation either fully applies or
// leaves the record untouched, and creation at an occupied address fails
// instead of overwriting.
package record

import (
	"context"
	"time"

	"github.com/yoiioy700/rbac-system/internal/address"
)

// Record is one stored unit. Body holds the CBOR-encoded payload whose shape
// is identified by Schema; Bump is the derivation disambiguator byte.
type Record struct {
	Address   address.Address
	Namespace string
	Bump      byte
	Schema    string
	Body      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the substrate contract. Implementations must guarantee:
//
//   - Create fails with shared.ErrAlreadyExists while a live record occupies
//     the address, and succeeds again after Destroy frees the slot.
//   - Read, Mutate and Destroy fail with shared.ErrNotFound when no live
//     record exists.
//   - Mutate applies fn all-or-nothing; a failing fn leaves the record
//     unchanged and no partial update is ever observable.
//   - WithTx runs fn against a transaction-scoped store; everything created
//     or mutated inside commits atomically or not at all.
type Store interface {
	Create(ctx context.Context, rec Record) error
	Read(ctx context.Context, addr address.Address) (Record, error)
	Mutate(ctx context.Context, addr address.Address, fn func(*Record) error) error
	Destroy(ctx context.Context, addr address.Address) error
	List(ctx context.Context, namespace string) ([]Record, error)
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
