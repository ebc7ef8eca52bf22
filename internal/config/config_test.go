package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, "rdkit", cfg.Feature.DescriptorSet)
	assert.True(t, cfg.Feature.UseFragment)
	assert.True(t, cfg.Feature.IpcAvg)

	assert.Equal(t, "SECFP", cfg.Feature.Fingerprint)
	assert.Equal(t, 2048, cfg.Feature.NBits)
	assert.Equal(t, 3, cfg.Feature.Radius)
	assert.Equal(t, 1, cfg.Feature.MinRadius)
	assert.Equal(t, int64(12345), cfg.Feature.RandomSeed)
	assert.True(t, cfg.Feature.Rings)
	assert.True(t, cfg.Feature.Isomeric)
	assert.False(t, cfg.Feature.Kekulize)

	assert.Equal(t, 10*time.Minute, cfg.Padel.Timeout)
	assert.Equal(t, ":9108", cfg.Metrics.Listen)
	assert.Equal(t, "diversemol", cfg.Metrics.Namespace)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Feature.DescriptorSet = "mordred"
	cfg.Feature.NBits = 512
	ApplyDefaults(cfg)

	assert.Equal(t, "mordred", cfg.Feature.DescriptorSet)
	assert.Equal(t, 512, cfg.Feature.NBits)
	// UseFragment defaults only apply together with the descriptor set.
	assert.False(t, cfg.Feature.UseFragment)
}

func TestApplyDefaults_ExplicitFingerprintSectionKeepsBooleans(t *testing.T) {
	cfg := &Config{}
	cfg.Feature.Fingerprint = "ECFP"
	ApplyDefaults(cfg)

	// The boolean encoder defaults come with the fingerprint default; a
	// config that names its own fingerprint states the booleans itself.
	assert.Equal(t, "ECFP", cfg.Feature.Fingerprint)
	assert.False(t, cfg.Feature.Rings)
	assert.False(t, cfg.Feature.Isomeric)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Feature.NBits = -1
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Feature.Radius = -2
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Feature.MinRadius = 5
	cfg.Feature.Radius = 3
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Milvus.Enabled = true
	cfg.Milvus.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Milvus.Enabled = true
	cfg.Milvus.Address = "localhost:19530"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
log:
  level: debug
  format: console
feature:
  descriptor_set: mordred
  fingerprint: ECFP
  n_bits: 1024
cache:
  enabled: true
  addr: redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "mordred", cfg.Feature.DescriptorSet)
	assert.Equal(t, "ECFP", cfg.Feature.Fingerprint)
	assert.Equal(t, 1024, cfg.Feature.NBits)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)

	// Unset keys still receive defaults.
	assert.Equal(t, 3, cfg.Feature.Radius)
	assert.Equal(t, ":9108", cfg.Metrics.Listen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feature:\n  n_bits: -8\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DIVERSEMOL_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "rdkit", cfg.Feature.DescriptorSet)
	assert.Equal(t, 2048, cfg.Feature.NBits)
}
