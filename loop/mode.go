package loop

// Mode selects the kind of worker a loop runs on.
type Mode int

const (
	// Threads runs tasks on goroutine workers in the caller's process.
	// The pool is sized above the CPU count (I/O-bound assumption) and
	// Shared environments are true shared memory: a mutation made by one
	// task is visible to tasks scheduled after it.
	Threads Mode = iota

	// Processes runs tasks on freshly spawned worker processes with no
	// inherited state. The pool is capped at the CPU count. All values
	// cross the process boundary by value, so a Shared environment is
	// effectively isolated per worker: mutations are never visible to
	// sibling tasks or to the caller, whatever the caller intended.
	Processes
)

func (m Mode) String() string {
	switch m {
	case Threads:
		return "threads"
	case Processes:
		return "processes"
	default:
		return "unknown"
	}
}
