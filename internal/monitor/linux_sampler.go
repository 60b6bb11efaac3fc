//go:build linux

package monitor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// LinuxSampler reads CPU, memory, disk, and network readings from
// /proc, the way the teacher's internal/monitor probes read /proc
// for process lifecycle detection. GPU has no portable /proc source
// and is always reported unavailable.
type LinuxSampler struct {
	prevCPUIdle, prevCPUTotal uint64
	haveCPU                   bool

	prevDiskSectors uint64
	prevNetBytes    uint64
	lastCheckTime   time.Time
	lastNetCheckTime time.Time
	haveDisk, haveNet bool
}

// NewLinuxSampler returns a Sampler backed by /proc and unix.Sysinfo.
func NewLinuxSampler() *LinuxSampler {
	return &LinuxSampler{}
}

// CPUPercent computes busy time as a fraction of total jiffies since
// the previous sample, from /proc/stat's aggregate "cpu" line.
func (s *LinuxSampler) CPUPercent() (float64, error) {
	idle, total, err := readProcStatCPU()
	if err != nil {
		return 0, err
	}
	defer func() {
		s.prevCPUIdle, s.prevCPUTotal, s.haveCPU = idle, total, true
	}()
	if !s.haveCPU || total <= s.prevCPUTotal {
		return 0, nil
	}
	deltaTotal := total - s.prevCPUTotal
	deltaIdle := idle - s.prevCPUIdle
	if deltaIdle > deltaTotal {
		return 0, nil
	}
	return float64(deltaTotal-deltaIdle) / float64(deltaTotal) * 100, nil
}

// MemoryPercent uses unix.Sysinfo for a dependency-backed reading
// rather than hand-parsing /proc/meminfo for this one value.
func (s *LinuxSampler) MemoryPercent() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("monitor: sysinfo: %w", err)
	}
	if info.Totalram == 0 {
		return 0, fmt.Errorf("monitor: sysinfo reported zero total memory")
	}
	used := info.Totalram - info.Freeram
	return float64(used) / float64(info.Totalram) * 100, nil
}

// GPUPercent has no portable /proc source; always unavailable.
func (s *LinuxSampler) GPUPercent() (float64, bool) { return 0, false }

// DiskBusyPercent approximates disk activity as sectors transferred
// per second since the last check, scaled into a 0-100 heuristic
// range. A zero or negative delta (counter reset) yields 0 and never
// divides by zero (spec.md §4.7).
func (s *LinuxSampler) DiskBusyPercent(now time.Time) (float64, bool) {
	sectors, err := readProcDiskstatsSectors()
	if err != nil {
		return 0, false
	}
	elapsed := time.Duration(0)
	if s.haveDisk {
		elapsed = now.Sub(s.lastCheckTime)
	}
	rate := RateFrom(sectors, s.prevDiskSectors, elapsed)
	s.prevDiskSectors = sectors
	s.haveDisk = true
	s.lastCheckTime = now
	return clampPercent(rate / 2048), true // heuristic sectors/sec -> percent
}

// NetworkBusyPercent approximates network activity as bytes
// transferred per second since the last check, scaled similarly.
func (s *LinuxSampler) NetworkBusyPercent(now time.Time) (float64, bool) {
	bytes, err := readProcNetDevBytes()
	if err != nil {
		return 0, false
	}
	elapsed := time.Duration(0)
	if s.haveNet {
		elapsed = now.Sub(s.lastNetCheckTime)
	}
	rate := RateFrom(bytes, s.prevNetBytes, elapsed)
	s.prevNetBytes = bytes
	s.haveNet = true
	s.lastNetCheckTime = now
	return clampPercent(rate / 1_000_000), true // heuristic bytes/sec -> percent
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func readProcStatCPU() (idle, total uint64, err error) {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, fmt.Errorf("monitor: /proc/stat empty")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, fmt.Errorf("monitor: unexpected /proc/stat format")
	}
	var vals []uint64
	for _, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		vals = append(vals, v)
	}
	for i, v := range vals {
		total += v
		if i == 3 { // idle
			idle = v
		}
	}
	return idle, total, nil
}

func readProcDiskstatsSectors() (uint64, error) {
	f, err := os.Open("/proc/diskstats")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 10 {
			continue
		}
		read, err1 := strconv.ParseUint(fields[5], 10, 64)
		written, err2 := strconv.ParseUint(fields[9], 10, 64)
		if err1 == nil {
			total += read
		}
		if err2 == nil {
			total += written
		}
	}
	return total, scanner.Err()
}

func readProcNetDevBytes() (uint64, error) {
	f, err := os.Open("/proc/net/dev")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total uint64
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= 2 {
			continue // header lines
		}
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		fields := strings.Fields(parts[1])
		if len(fields) < 9 {
			continue
		}
		rx, err1 := strconv.ParseUint(fields[0], 10, 64)
		tx, err2 := strconv.ParseUint(fields[8], 10, 64)
		if err1 == nil {
			total += rx
		}
		if err2 == nil {
			total += tx
		}
	}
	return total, scanner.Err()
}
