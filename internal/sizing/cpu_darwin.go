//go:build darwin

package sizing

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// LogicalCPUs returns the number of logical CPUs. macOS has no affinity
// API, so the sysctl value is used directly.
func LogicalCPUs() int {
	if n, err := unix.SysctlUint32("hw.logicalcpu"); err == nil && n > 0 {
		return int(n)
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
