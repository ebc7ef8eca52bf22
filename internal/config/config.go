// Package config provides configuration loading, defaults, and validation
// for DiverseMol.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/DiverseMol/internal/infrastructure/cache"
	"github.com/turtacn/DiverseMol/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiverseMol/internal/infrastructure/padel"
	"github.com/turtacn/DiverseMol/internal/infrastructure/search/milvus"
)

// Config is the root configuration tree.
type Config struct {
	Log     logging.LogConfig `yaml:"log" json:"log" mapstructure:"log"`
	Feature FeatureConfig     `yaml:"feature" json:"feature" mapstructure:"feature"`
	Padel   padel.Config      `yaml:"padel" json:"padel" mapstructure:"padel"`
	Cache   CacheConfig       `yaml:"cache" json:"cache" mapstructure:"cache"`
	Milvus  MilvusConfig      `yaml:"milvus" json:"milvus" mapstructure:"milvus"`
	Metrics MetricsConfig     `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// FeatureConfig carries the generator defaults used when the CLI flags leave
// them unset.
type FeatureConfig struct {
	DescriptorSet string `yaml:"descriptor_set" json:"descriptor_set" mapstructure:"descriptor_set"`
	UseFragment   bool   `yaml:"use_fragment" json:"use_fragment" mapstructure:"use_fragment"`
	IpcAvg        bool   `yaml:"ipc_avg" json:"ipc_avg" mapstructure:"ipc_avg"`

	Fingerprint string `yaml:"fingerprint" json:"fingerprint" mapstructure:"fingerprint"`
	NBits       int    `yaml:"n_bits" json:"n_bits" mapstructure:"n_bits"`
	Radius      int    `yaml:"radius" json:"radius" mapstructure:"radius"`
	MinRadius   int    `yaml:"min_radius" json:"min_radius" mapstructure:"min_radius"`
	RandomSeed  int64  `yaml:"random_seed" json:"random_seed" mapstructure:"random_seed"`
	Rings       bool   `yaml:"rings" json:"rings" mapstructure:"rings"`
	Isomeric    bool   `yaml:"isomeric" json:"isomeric" mapstructure:"isomeric"`
	Kekulize    bool   `yaml:"kekulize" json:"kekulize" mapstructure:"kekulize"`
}

// CacheConfig wraps the redis cache settings with an enable switch.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	cache.Config `yaml:",inline" json:",inline" mapstructure:",squash"`
}

// MilvusConfig wraps the vector store settings with an enable switch.
type MilvusConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	milvus.Config `yaml:",inline" json:",inline" mapstructure:",squash"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Listen    string `yaml:"listen" json:"listen" mapstructure:"listen"`
	Namespace string `yaml:"namespace" json:"namespace" mapstructure:"namespace"`
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Feature.DescriptorSet == "" {
		cfg.Feature.DescriptorSet = "rdkit"
		cfg.Feature.UseFragment = true
		cfg.Feature.IpcAvg = true
	}
	// An empty fingerprint selector means the whole fingerprint section is
	// untouched, so the boolean encoder defaults apply too.
	if cfg.Feature.Fingerprint == "" {
		cfg.Feature.Fingerprint = "SECFP"
		cfg.Feature.Rings = true
		cfg.Feature.Isomeric = true
	}
	if cfg.Feature.NBits == 0 {
		cfg.Feature.NBits = 2048
	}
	if cfg.Feature.Radius == 0 {
		cfg.Feature.Radius = 3
	}
	if cfg.Feature.MinRadius == 0 {
		cfg.Feature.MinRadius = 1
	}
	if cfg.Feature.RandomSeed == 0 {
		cfg.Feature.RandomSeed = 12345
	}
	if cfg.Padel.Timeout == 0 {
		cfg.Padel.Timeout = 10 * time.Minute
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9108"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "diversemol"
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Feature.NBits < 0 {
		return fmt.Errorf("feature.n_bits must be non-negative, got %d", c.Feature.NBits)
	}
	if c.Feature.Radius < 0 {
		return fmt.Errorf("feature.radius must be non-negative, got %d", c.Feature.Radius)
	}
	if c.Feature.MinRadius < 0 || (c.Feature.Radius > 0 && c.Feature.MinRadius > c.Feature.Radius) {
		return fmt.Errorf("feature.min_radius %d out of range for radius %d",
			c.Feature.MinRadius, c.Feature.Radius)
	}
	if c.Milvus.Enabled && c.Milvus.Address == "" {
		return fmt.Errorf("milvus.address is required when milvus is enabled")
	}
	return nil
}
