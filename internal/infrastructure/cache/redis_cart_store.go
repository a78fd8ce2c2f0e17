package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// RedisCartStore implements cart.Store on a Redis hash per session.
// Field names are product UUIDs, values are quantities. Every write
// refreshes the key's TTL so an active cart never expires mid-session.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store connected per configuration
func NewRedisCartStore(redisCfg config.RedisConfig, ttl time.Duration) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCartStoreWithClient(client, ttl), nil
}

// NewRedisCartStoreWithClient creates a cart store on an existing client
func NewRedisCartStoreWithClient(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:",
		ttl:       ttl,
	}
}

func (s *RedisCartStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Add increments the entry for productID by quantity.
//
// The increment must be applied server-side (HIncrBy), not via a
// load-modify-store cycle, so concurrent requests against the same
// session never lose updates across instances. Entry invariants are
// still the aggregate's: the mutation is rehearsed on a scratch Cart
// and only performed if the domain accepts it.
func (s *RedisCartStore) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	if err := cart.New(sessionID).Add(productID, quantity); err != nil {
		return err
	}
	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, productID.String(), quantity)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// SetQuantity overwrites the entry; non-positive quantities remove it
func (s *RedisCartStore) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	if err := cart.New(sessionID).SetQuantity(productID, quantity); err != nil {
		return err
	}
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, productID)
	}
	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, productID.String(), quantity)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Remove deletes the entry for productID; absent entries are a no-op
func (s *RedisCartStore) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return s.client.HDel(ctx, s.key(sessionID), productID.String()).Err()
}

// Clear removes the whole cart
func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// Snapshot returns a copy of the session's entries. Hash fields that do
// not parse as UUID/int64 pairs are skipped rather than failing the
// whole read; what parses is rebuilt through the Cart aggregate so the
// positive-quantity invariant is enforced in one place.
func (s *RedisCartStore) Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	raw := make(cart.Snapshot, len(fields))
	for field, value := range fields {
		productID, err := uuid.Parse(field)
		if err != nil {
			continue
		}
		quantity, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		raw[productID] = quantity
	}
	return cart.FromSnapshot(sessionID, raw).Snapshot(), nil
}

// ItemCount returns the sum of all quantities for the session
func (s *RedisCartStore) ItemCount(ctx context.Context, sessionID string) (int64, error) {
	snap, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return snap.ItemCount(), nil
}

// Ping verifies the Redis connection, for health checks
func (s *RedisCartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

var _ cart.Store = (*RedisCartStore)(nil)
