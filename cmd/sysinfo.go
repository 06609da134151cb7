package cmd

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// logicalCPUs returns the number of logical CPUs, falling back to the Go
// runtime's view when the host cannot be queried
func logicalCPUs() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		logger.Debugf("querying cpu count failed (%v); using runtime.NumCPU", err)
		return runtime.NumCPU()
	}
	return count
}

// logHostInfo reports the machine the render runs on
func logHostInfo() {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Debugf("querying memory failed: %v", err)
		return
	}

	logger.Infof(
		"host: %d logical CPUs, %.1f GiB memory (%.1f GiB available)",
		logicalCPUs(), float64(vm.Total)/(1<<30), float64(vm.Available)/(1<<30),
	)
}
