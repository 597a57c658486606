//go:build linux

package sizing

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// LogicalCPUs returns the number of logical CPUs this process may run on.
// The scheduler affinity mask is consulted first so that taskset and
// cpuset-restricted containers size their pools from what they can
// actually use, not from the host core count.
func LogicalCPUs() int {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err == nil {
		if n := mask.Count(); n > 0 {
			return n
		}
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
