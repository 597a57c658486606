//go:build !linux && !darwin && !windows

package sizing

import "runtime"

// LogicalCPUs returns the number of logical CPUs reported by the runtime.
func LogicalCPUs() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
