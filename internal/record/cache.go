package record

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yoiioy700/rbac-system/internal/address"
)

// CachedStore layers a read-through Redis cache over another Store. The
// underlying store stays authoritative: every Create, Mutate and Destroy
// invalidates the cached copy, and any cache failure degrades to a direct
// read rather than surfacing an error.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedStore wraps inner with a Redis cache.
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(addr address.Address) string {
	return "record:" + addr.String()
}

// Read consults the cache first and falls back to the inner store on a miss.
func (c *CachedStore) Read(ctx context.Context, addr address.Address) (Record, error) {
	key := cacheKey(addr)
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rec Record
		if err := Decode(cached, &rec); err == nil {
			return rec, nil
		}
		// Undecodable entry: drop it and fall through to the store.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.warn("cache read", err)
	}

	rec, err := c.inner.Read(ctx, addr)
	if err != nil {
		return Record{}, err
	}
	if encoded, err := Encode(rec); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.warn("cache fill", err)
		}
	}
	return rec, nil
}

// Create writes through and drops any cached entry at the address.
func (c *CachedStore) Create(ctx context.Context, rec Record) error {
	if err := c.inner.Create(ctx, rec); err != nil {
		return err
	}
	c.invalidate(ctx, rec.Address)
	return nil
}

// Mutate writes through and drops the cached entry.
func (c *CachedStore) Mutate(ctx context.Context, addr address.Address, fn func(*Record) error) error {
	if err := c.inner.Mutate(ctx, addr, fn); err != nil {
		return err
	}
	c.invalidate(ctx, addr)
	return nil
}

// Destroy writes through and drops the cached entry.
func (c *CachedStore) Destroy(ctx context.Context, addr address.Address) error {
	if err := c.inner.Destroy(ctx, addr); err != nil {
		return err
	}
	c.invalidate(ctx, addr)
	return nil
}

// List always goes to the authoritative store.
func (c *CachedStore) List(ctx context.Context, namespace string) ([]Record, error) {
	return c.inner.List(ctx, namespace)
}

// WithTx delegates to the inner store and invalidates every address the
// transaction touched once it commits. Reads inside the transaction bypass
// the cache entirely so they observe uncommitted writes.
func (c *CachedStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	var touched []address.Address
	err := c.inner.WithTx(ctx, func(ctx context.Context, tx Store) error {
		return fn(ctx, &txTracker{Store: tx, touched: &touched})
	})
	if err != nil {
		return err
	}
	c.invalidate(ctx, touched...)
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context, addrs ...address.Address) {
	if len(addrs) == 0 {
		return
	}
	keys := make([]string, len(addrs))
	for i, addr := range addrs {
		keys[i] = cacheKey(addr)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.warn("cache invalidate", err)
	}
}

func (c *CachedStore) warn(op string, err error) {
	if c.logger != nil {
		c.logger.Warn(op, slog.Any("error", err))
	}
}

// txTracker records which addresses a transaction writes so the cache can
// invalidate them after commit.
type txTracker struct {
	Store
	touched *[]address.Address
}

func (t *txTracker) Create(ctx context.Context, rec Record) error {
	if err := t.Store.Create(ctx, rec); err != nil {
		return err
	}
	*t.touched = append(*t.touched, rec.Address)
	return nil
}

func (t *txTracker) Mutate(ctx context.Context, addr address.Address, fn func(*Record) error) error {
	if err := t.Store.Mutate(ctx, addr, fn); err != nil {
		return err
	}
	*t.touched = append(*t.touched, addr)
	return nil
}

func (t *txTracker) Destroy(ctx context.Context, addr address.Address) error {
	if err := t.Store.Destroy(ctx, addr); err != nil {
		return err
	}
	*t.touched = append(*t.touched, addr)
	return nil
}

func (t *txTracker) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return t.Store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		return fn(ctx, &txTracker{Store: tx, touched: t.touched})
	})
}
