package store

import (
	"context"
	"fmt"

	"SignalDesk/internal/config"

	"github.com/rs/zerolog"
)

// Keys of the persisted quota scalars.
const (
	KeyTier        = "tier"
	KeyUsedCount   = "usedCount"
	KeyLastResetAt = "lastResetAt" // epoch millis
)

// Store is a string key-value store. Get reports ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StoreConfig, log zerolog.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", "file":
		s, err = NewFileStore(cfg.FilePath)
	case "sqlite":
		s, err = NewSQLiteStore(cfg.SQLitePath)
	case "redis":
		s, err = NewRedisStore(RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case "badger":
		s, err = NewBadgerStore(cfg.BadgerDir)
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	log.Info().Str("driver", cfg.Driver).Msg("key-value store opened")
	return s, nil
}
