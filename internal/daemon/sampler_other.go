//go:build !linux

package daemon

import "github.com/deskpet/core/internal/monitor"

func newSampler() monitor.Sampler {
	return monitor.NewFallbackSampler()
}
