// Package system holds process-level helpers: resource limits and runtime
// statistics for long export runs.
package system

import (
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// InitResourceLimits raises the open-file limit so large frame exports do not
// trip the default soft limit.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise file limit: %v", err)
	}
}

// Stats is a point-in-time snapshot of the process and host.
type Stats struct {
	CPUCores       int
	HostMemTotal   uint64
	HostMemUsedPct float64
	ProcessRSS     uint64
}

// CollectStats gathers host and process figures. Fields stay zero for probes
// that fail; the caller gets whatever could be read.
func CollectStats() Stats {
	var s Stats

	if cores, err := cpu.Counts(true); err == nil {
		s.CPUCores = cores
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.HostMemTotal = vm.Total
		s.HostMemUsedPct = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			s.ProcessRSS = mi.RSS
		}
	}
	return s
}

// String formats the snapshot for CLI output.
func (s Stats) String() string {
	return fmt.Sprintf("cpu cores: %d | host mem: %s (%.1f%% used) | process rss: %s",
		s.CPUCores, formatBytes(s.HostMemTotal), s.HostMemUsedPct, formatBytes(s.ProcessRSS))
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
