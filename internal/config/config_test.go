package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_PassesValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsNonMonotonicCpuThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPU.Moderate = cfg.CPU.Light - 1
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonMonotonicMemoryThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Memory.Critical = cfg.Memory.Warning - 1
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositivePeriods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MonitorPeriodMs = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CalendarPeriodMs = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveHistoryCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCap = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveDecayRetention(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayRetentionSec = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnrecognizedZoneShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zones = []ZoneConfig{{ID: "z1", Shape: "triangle"}}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsZoneMissingID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zones = []ZoneConfig{{Shape: "circle"}}
	assert.Error(t, cfg.Validate())
}

func TestValidate_AcceptsWellFormedZone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zones = []ZoneConfig{{ID: "face", Shape: "circle", CenterX: 100, CenterY: 100, Radius: 50, Supports: []string{"Hover"}, Enabled: true}}
	assert.NoError(t, cfg.Validate())
}

func TestLoadJSON_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadJSON(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadJSON_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"daemon":{"listen_addr":"0.0.0.0:9000"}}`), 0o644))

	cfg, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Daemon.ListenAddr)
	assert.Equal(t, DefaultConfig().CPU, cfg.CPU, "unspecified sections keep their defaults")
}

func TestLoadJSON_RejectsInvalidMergedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"history_cap":0}`), 0o644))

	_, err := LoadJSON(path)
	assert.Error(t, err)
}

func TestLoadJSON_RejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := LoadJSON(path)
	assert.Error(t, err)
}
