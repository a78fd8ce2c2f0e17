package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// CartStoreFactory creates cart stores based on configuration
type CartStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CartStoreFactoryOption is a functional option for configuring the factory
type CartStoreFactoryOption func(*CartStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// store when Redis is unavailable. Default is true; production should
// disable it so a Redis outage is loud instead of silently losing carts
// on restart.
func WithInMemoryFallback(allow bool) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCartStoreFactory creates a new factory
func NewCartStoreFactory(cfg config.RedisConfig, opts ...CartStoreFactoryOption) *CartStoreFactory {
	f := &CartStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis-backed cart store, falling back to in-memory
// when allowed and Redis cannot be reached.
func (f *CartStoreFactory) Create(ttl time.Duration) (cart.Store, error) {
	store, err := NewRedisCartStore(f.redisConfig, ttl)
	if err == nil {
		f.logger.Info("using redis cart store",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Duration("ttl", ttl),
		)
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cart store unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, using in-memory cart store", zap.Error(err))
	return NewInMemoryCartStore(), nil
}
