package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
)

func TestClassifySystemState_MemoryCriticalOutranksCpuCritical(t *testing.T) {
	cfg := config.DefaultConfig()
	stats := eventbus.SystemStatsUpdated{CPU: 100, Memory: cfg.Memory.Critical}
	assert.Equal(t, petstate.StateMemoryCritical, ClassifySystemState(stats, cfg))
}

func TestClassifySystemState_CpuCriticalOutranksMemoryWarning(t *testing.T) {
	cfg := config.DefaultConfig()
	stats := eventbus.SystemStatsUpdated{CPU: cfg.CPU.Critical, Memory: cfg.Memory.Warning}
	assert.Equal(t, petstate.StateCpuCritical, ClassifySystemState(stats, cfg), "memory at exactly Warning does not outrank cpu at Critical")
}

func TestClassifySystemState_MemoryWarningBeatsSubsystemVeryBusy(t *testing.T) {
	cfg := config.DefaultConfig()
	gpu := cfg.GPU.VeryBusy
	stats := eventbus.SystemStatsUpdated{CPU: 0, Memory: cfg.Memory.Warning, GPU: &gpu}
	assert.Equal(t, petstate.StateMemoryWarning, ClassifySystemState(stats, cfg))
}

func TestClassifySystemState_SubsystemTieBreakOrderIsGpuDiskNetwork(t *testing.T) {
	cfg := config.DefaultConfig()
	gpu, disk := cfg.GPU.VeryBusy, cfg.Disk.VeryBusy
	stats := eventbus.SystemStatsUpdated{CPU: 0, Memory: 0, GPU: &gpu, Disk: &disk}
	assert.Equal(t, petstate.StateGpuVeryBusy, ClassifySystemState(stats, cfg))
}

func TestClassifySystemState_CpuLadder(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		cpu  float64
		want petstate.PetState
	}{
		{0, petstate.StateIdle},
		{cfg.CPU.Light, petstate.StateLightLoad},
		{cfg.CPU.Moderate, petstate.StateModerateLoad},
		{cfg.CPU.Heavy, petstate.StateHeavyLoad},
		{cfg.CPU.VeryHeavy, petstate.StateVeryHeavyLoad},
		{cfg.CPU.Critical, petstate.StateCpuCritical},
	}
	for _, tt := range tests {
		stats := eventbus.SystemStatsUpdated{CPU: tt.cpu, Memory: 0}
		assert.Equal(t, tt.want, ClassifySystemState(stats, cfg), "cpu=%v", tt.cpu)
	}
}

func TestClassifySystemState_NilSubsystemReadingsAreSkipped(t *testing.T) {
	cfg := config.DefaultConfig()
	stats := eventbus.SystemStatsUpdated{CPU: 0, Memory: 0}
	assert.Equal(t, petstate.StateIdle, ClassifySystemState(stats, cfg))
}

func TestSystemStateAdapter_DropsInvalidReadings(t *testing.T) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	cfg := config.DefaultConfig()
	a := NewSystemStateAdapter(m, cfg, nil)
	a.Register(bus)

	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindSystemStatsUpdated, Payload: eventbus.SystemStatsUpdated{CPU: -1, Memory: 10}})
	assert.Equal(t, petstate.StateIdle, m.Current(), "a negative cpu reading must be dropped, not classified")
}
