// Package cache caches computed descriptor rows in Redis, keyed by canonical
// SMILES and descriptor backend, so repeated featurization of overlapping
// molecule sets skips recomputation.  Concurrent misses for the same molecule
// are collapsed through singleflight.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/pkg/errors"
)

// Config carries the Redis connection and TTL settings.
type Config struct {
	Addr     string        `yaml:"addr" json:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" json:"password" mapstructure:"password"`
	DB       int           `yaml:"db" json:"db" mapstructure:"db"`
	PoolSize int           `yaml:"pool_size" json:"pool_size" mapstructure:"pool_size"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}
}

// entry is the stored JSON payload for one descriptor row.
type entry struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// DescriptorCache is the Redis-backed row cache.
type DescriptorCache struct {
	rdb    *redis.Client
	cfg    Config
	group  singleflight.Group
	logger logging.Logger

	// Hit and Miss are invoked on the corresponding lookup outcomes, for
	// metrics wiring; nil callbacks are skipped.
	Hit  func()
	Miss func()
}

// NewDescriptorCache connects to Redis and verifies the connection.
func NewDescriptorCache(ctx context.Context, cfg Config, logger logging.Logger) (*DescriptorCache, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "redis connection failed")
	}
	return &DescriptorCache{rdb: rdb, cfg: cfg, logger: logger.Named("cache")}, nil
}

// Close releases the connection pool.
func (c *DescriptorCache) Close() error {
	return c.rdb.Close()
}

func cacheKey(backend, canonicalSMILES string) string {
	return fmt.Sprintf("diversemol:desc:%s:%s", backend, canonicalSMILES)
}

// GetRow returns the cached row for a molecule, or ok=false on a miss.
// A corrupt entry is treated as a miss and evicted.
func (c *DescriptorCache) GetRow(ctx context.Context, backend, canonicalSMILES string) (columns []string, values []float64, ok bool, err error) {
	raw, err := c.rdb.Get(ctx, cacheKey(backend, canonicalSMILES)).Bytes()
	if err == redis.Nil {
		if c.Miss != nil {
			c.Miss()
		}
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, errors.Wrap(err, errors.CodeCacheError, "cache read failed")
	}
	var e entry
	if jsonErr := json.Unmarshal(raw, &e); jsonErr != nil {
		c.logger.Warn("evicting corrupt cache entry",
			logging.String("smiles", canonicalSMILES), logging.Err(jsonErr))
		c.rdb.Del(ctx, cacheKey(backend, canonicalSMILES))
		if c.Miss != nil {
			c.Miss()
		}
		return nil, nil, false, nil
	}
	if c.Hit != nil {
		c.Hit()
	}
	return e.Columns, e.Values, true, nil
}

// PutRow stores a computed row with the configured TTL.
func (c *DescriptorCache) PutRow(ctx context.Context, backend, canonicalSMILES string, columns []string, values []float64) error {
	raw, err := json.Marshal(entry{Columns: columns, Values: values})
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "cannot encode cache entry")
	}
	if err := c.rdb.Set(ctx, cacheKey(backend, canonicalSMILES), raw, c.cfg.TTL).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache write failed")
	}
	return nil
}

// GetOrCompute returns the cached row or computes, stores, and returns it.
// Concurrent calls for the same key share a single compute invocation.
func (c *DescriptorCache) GetOrCompute(ctx context.Context, backend, canonicalSMILES string,
	compute func() ([]string, []float64, error)) ([]string, []float64, error) {

	cols, vals, ok, err := c.GetRow(ctx, backend, canonicalSMILES)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return cols, vals, nil
	}

	v, err, _ := c.group.Do(cacheKey(backend, canonicalSMILES), func() (interface{}, error) {
		cols, vals, err := compute()
		if err != nil {
			return nil, err
		}
		if putErr := c.PutRow(ctx, backend, canonicalSMILES, cols, vals); putErr != nil {
			// The computed row is still good; log and return it.
			c.logger.Warn("cache write failed", logging.Err(putErr))
		}
		return entry{Columns: cols, Values: vals}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	e := v.(entry)
	return e.Columns, e.Values, nil
}
