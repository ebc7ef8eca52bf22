package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 24*time.Hour, cfg.TTL)

	cfg = Config{Addr: "redis:6380", PoolSize: 4, TTL: time.Minute}
	cfg.applyDefaults()
	assert.Equal(t, "redis:6380", cfg.Addr)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, time.Minute, cfg.TTL)
}

func TestCacheKey(t *testing.T) {
	key := cacheKey("rdkit", "CCO")
	assert.Equal(t, "diversemol:desc:rdkit:CCO", key)

	// Backends and molecules never collide.
	assert.NotEqual(t, cacheKey("rdkit", "CCO"), cacheKey("mordred", "CCO"))
	assert.NotEqual(t, cacheKey("rdkit", "CCO"), cacheKey("rdkit", "CCN"))
}

func TestEntry_JSONRoundTrip(t *testing.T) {
	e := entry{Columns: []string{"MolWt", "TPSA"}, Values: []float64{46.069, 20.23}}

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var got entry
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, e, got)
}
