// Package config declares the YAML-backed configuration for building a
// fully wired cache without touching the policy constructors directly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PolicyKind selects the eviction scheme (and, for tinylfu, the paired
// admission policy).
type PolicyKind string

const (
	// PolicyLRU evicts the least recently used entry first.
	PolicyLRU PolicyKind = "lru"

	// PolicySegmentedLRU splits entries into probation and protected
	// segments; victims come from probation first.
	PolicySegmentedLRU PolicyKind = "segmented_lru"

	// PolicyTinyLFU pairs TinyLFU admission with Segmented-LRU eviction.
	PolicyTinyLFU PolicyKind = "tinylfu"

	// PolicyGDSF evicts by ascending cost*frequency/size coefficient.
	PolicyGDSF PolicyKind = "gdsf"
)

// ConstraintKind selects the capacity arbiter.
type ConstraintKind string

const (
	// ConstraintMemory bounds the summed measured size of resident items.
	ConstraintMemory ConstraintKind = "memory"

	// ConstraintCount bounds the number of resident items.
	ConstraintCount ConstraintKind = "count"
)

// Cache groups configuration of all cache subsystems.
type Cache struct {
	Policy     PolicyCfg     `yaml:"policy"`
	Constraint ConstraintCfg `yaml:"constraint"`
	Statistics StatisticsCfg `yaml:"statistics"`

	// ThreadSafe serialises every public operation on a single guard.
	ThreadSafe bool `yaml:"thread_safe"`

	// Telemetry configures periodic structured log snapshots.
	// If nil, telemetry is disabled.
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}

type PolicyCfg struct {
	// Kind of the eviction scheme; see the PolicyKind constants.
	Kind PolicyKind `yaml:"kind"`

	// ProtectedSegmentSize bounds the protected segment of the
	// segmented_lru and tinylfu schemes.
	ProtectedSegmentSize int `yaml:"protected_segment_size"`

	// Cardinality sizes the frequency sketches of the tinylfu and gdsf
	// schemes. Align it with the expected number of resident items.
	Cardinality uint32 `yaml:"cardinality"`
}

type ConstraintCfg struct {
	// Kind of the capacity arbiter; see the ConstraintKind constants.
	Kind ConstraintKind `yaml:"kind"`

	// MaxBytes is the byte budget for the memory constraint.
	MaxBytes uint64 `yaml:"max_bytes"`

	// MaxItems is the entry budget for the count constraint.
	MaxItems uint64 `yaml:"max_items"`
}

type StatisticsCfg struct {
	// WindowSize is the number of lookups the hit-rate means roll over.
	WindowSize uint32 `yaml:"window_size"`
}

type TelemetryCfg struct {
	// Interval between snapshot log lines, written as a Go duration
	// string such as "30s".
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}

// AdjustConfig fills in defaults for fields left at their zero value.
func (cfg *Cache) AdjustConfig() {
	if cfg.Policy.Kind == "" {
		cfg.Policy.Kind = PolicyLRU
	}
	if cfg.Policy.Cardinality == 0 {
		cfg.Policy.Cardinality = 2000
	}
	if cfg.Constraint.Kind == "" {
		cfg.Constraint.Kind = ConstraintMemory
	}
	if cfg.Statistics.WindowSize == 0 {
		cfg.Statistics.WindowSize = 1000
	}
	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = time.Minute
	}
}

// Validate rejects combinations the cache cannot be built from.
func (cfg *Cache) Validate() error {
	switch cfg.Policy.Kind {
	case PolicyLRU, PolicySegmentedLRU, PolicyTinyLFU, PolicyGDSF:
	default:
		return fmt.Errorf("unknown policy kind %q", cfg.Policy.Kind)
	}

	switch cfg.Constraint.Kind {
	case ConstraintMemory:
		if cfg.Constraint.MaxBytes == 0 {
			return fmt.Errorf("memory constraint requires max_bytes > 0")
		}
	case ConstraintCount:
		if cfg.Constraint.MaxItems == 0 {
			return fmt.Errorf("count constraint requires max_items > 0")
		}
	default:
		return fmt.Errorf("unknown constraint kind %q", cfg.Constraint.Kind)
	}

	return nil
}

// LoadConfig reads, unmarshals and normalises a YAML config file.
func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Cache
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}
