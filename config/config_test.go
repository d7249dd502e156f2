package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_FullDocument(t *testing.T) {
	path := writeConfig(t, `
policy:
  kind: tinylfu
  protected_segment_size: 16
  cardinality: 4096
constraint:
  kind: memory
  max_bytes: 1048576
statistics:
  window_size: 500
thread_safe: true
telemetry:
  interval: 30s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, PolicyTinyLFU, cfg.Policy.Kind)
	require.Equal(t, 16, cfg.Policy.ProtectedSegmentSize)
	require.Equal(t, uint32(4096), cfg.Policy.Cardinality)
	require.Equal(t, ConstraintMemory, cfg.Constraint.Kind)
	require.Equal(t, uint64(1048576), cfg.Constraint.MaxBytes)
	require.Equal(t, uint32(500), cfg.Statistics.WindowSize)
	require.True(t, cfg.ThreadSafe)
	require.True(t, cfg.Telemetry.Enabled())
	require.Equal(t, 30*time.Second, cfg.Telemetry.Interval)
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
constraint:
  kind: count
  max_items: 100
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, PolicyLRU, cfg.Policy.Kind)
	require.Equal(t, uint32(2000), cfg.Policy.Cardinality)
	require.Equal(t, uint32(1000), cfg.Statistics.WindowSize)
	require.False(t, cfg.Telemetry.Enabled())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "policy: [unclosed")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidate_UnknownPolicyKind(t *testing.T) {
	cfg := &Cache{
		Policy:     PolicyCfg{Kind: "mru"},
		Constraint: ConstraintCfg{Kind: ConstraintCount, MaxItems: 1},
	}
	require.Error(t, cfg.Validate())
}

func TestValidate_MissingBudget(t *testing.T) {
	cfg := &Cache{
		Policy:     PolicyCfg{Kind: PolicyLRU},
		Constraint: ConstraintCfg{Kind: ConstraintMemory},
	}
	require.Error(t, cfg.Validate())

	cfg.Constraint = ConstraintCfg{Kind: ConstraintCount}
	require.Error(t, cfg.Validate())
}

func TestAdjustConfig_TelemetryIntervalDefault(t *testing.T) {
	cfg := &Cache{Telemetry: &TelemetryCfg{}}
	cfg.AdjustConfig()
	require.Equal(t, time.Minute, cfg.Telemetry.Interval)
}
