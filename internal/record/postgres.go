package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoiioy700/rbac-system/internal/address"
	"github.com/yoiioy700/rbac-system/internal/shared"
)

// uniqueViolation is the SQLSTATE PostgreSQL raises on a primary key
// conflict. The records table keys on address, so this is exactly the
// "live record occupies the address" case.
const uniqueViolation = "23505"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists records in the records table. A store built by
// NewPostgresStore operates on the pool; WithTx hands callers a
// transaction-scoped copy.
type PostgresStore struct {
	pool *pgxpool.Pool
	db   querier
}

// NewPostgresStore builds a pool-scoped store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

// Create inserts a record. A live record at the same address fails with
// shared.ErrAlreadyExists; the insert itself is the create-once guarantee,
// so two racing creates never both succeed.
func (s *PostgresStore) Create(ctx context.Context, rec Record) error {
	now := rec.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	const q = `INSERT INTO records (address, namespace, bump, schema, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`
	_, err := s.db.Exec(ctx, q, rec.Address[:], rec.Namespace, int16(rec.Bump), rec.Schema, rec.Body, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("record at %s: %w", rec.Address, shared.ErrAlreadyExists)
		}
		return fmt.Errorf("record: create: %w", err)
	}
	return nil
}

// Read fetches the record at addr.
func (s *PostgresStore) Read(ctx context.Context, addr address.Address) (Record, error) {
	const q = `SELECT namespace, bump, schema, body, created_at, updated_at
		FROM records WHERE address = $1`
	return s.scanOne(s.db.QueryRow(ctx, q, addr[:]), addr)
}

// Mutate applies fn to the record at addr under a row lock. The updated body
// is written back only when fn succeeds; on error the transaction rolls back
// and the record is untouched.
func (s *PostgresStore) Mutate(ctx context.Context, addr address.Address, fn func(*Record) error) error {
	if s.pool != nil {
		return s.WithTx(ctx, func(ctx context.Context, tx Store) error {
			return tx.Mutate(ctx, addr, fn)
		})
	}
	const sel = `SELECT namespace, bump, schema, body, created_at, updated_at
		FROM records WHERE address = $1 FOR UPDATE`
	rec, err := s.scanOne(s.db.QueryRow(ctx, sel, addr[:]), addr)
	if err != nil {
		return err
	}
	if err := fn(&rec); err != nil {
		return err
	}
	const upd = `UPDATE records SET schema = $2, body = $3, updated_at = $4 WHERE address = $1`
	if _, err := s.db.Exec(ctx, upd, addr[:], rec.Schema, rec.Body, time.Now().UTC()); err != nil {
		return fmt.Errorf("record: mutate: %w", err)
	}
	return nil
}

// Destroy deletes the record at addr, freeing the slot for a later Create.
func (s *PostgresStore) Destroy(ctx context.Context, addr address.Address) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM records WHERE address = $1`, addr[:])
	if err != nil {
		return fmt.Errorf("record: destroy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record at %s: %w", addr, shared.ErrNotFound)
	}
	return nil
}

// List returns all live records in a namespace, oldest first.
func (s *PostgresStore) List(ctx context.Context, namespace string) ([]Record, error) {
	const q = `SELECT address, namespace, bump, schema, body, created_at, updated_at
		FROM records WHERE namespace = $1 ORDER BY created_at, address`
	rows, err := s.db.Query(ctx, q, namespace)
	if err != nil {
		return nil, fmt.Errorf("record: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var rawAddr []byte
		var bump int16
		if err := rows.Scan(&rawAddr, &rec.Namespace, &bump, &rec.Schema, &rec.Body, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("record: list scan: %w", err)
		}
		copy(rec.Address[:], rawAddr)
		rec.Bump = byte(bump)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("record: list rows: %w", err)
	}
	return records, nil
}

// WithTx runs fn inside one transaction at RepeatableRead. Already
// transaction-scoped stores run fn directly so nested scopes compose.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.pool == nil {
		return fn(ctx, s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("record: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, &PostgresStore{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("record: commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanOne(row pgx.Row, addr address.Address) (Record, error) {
	var rec Record
	var bump int16
	err := row.Scan(&rec.Namespace, &bump, &rec.Schema, &rec.Body, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, fmt.Errorf("record at %s: %w", addr, shared.ErrNotFound)
		}
		return Record{}, fmt.Errorf("record: read: %w", err)
	}
	rec.Address = addr
	rec.Bump = byte(bump)
	return rec, nil
}
