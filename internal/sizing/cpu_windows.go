//go:build windows

package sizing

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// LogicalCPUs returns the number of active logical processors across all
// processor groups.
func LogicalCPUs() int {
	if n := windows.GetActiveProcessorCount(windows.ALL_PROCESSOR_GROUPS); n > 0 {
		return int(n)
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
