package sizing

import "testing"

func TestLogicalCPUs(t *testing.T) {
	if n := LogicalCPUs(); n < 1 {
		t.Fatalf("expected at least 1 CPU, got %d", n)
	}
}

func TestThreadBound(t *testing.T) {
	b := ThreadBound()
	if b < 1 {
		t.Fatalf("expected at least 1, got %d", b)
	}
	if b > threadCap {
		t.Errorf("expected bound <= %d, got %d", threadCap, b)
	}
	if b > LogicalCPUs()*threadFactor {
		t.Errorf("expected bound <= %d, got %d", LogicalCPUs()*threadFactor, b)
	}
}

func TestProcessBound(t *testing.T) {
	b := ProcessBound()
	if b < 1 {
		t.Fatalf("expected at least 1, got %d", b)
	}
	if b != LogicalCPUs() {
		t.Errorf("expected bound == logical CPU count %d, got %d", LogicalCPUs(), b)
	}
}

func TestWorkers_CappedByTaskCount(t *testing.T) {
	if got := Workers(ThreadBound(), 2); got > 2 {
		t.Errorf("expected at most 2 workers for 2 tasks, got %d", got)
	}
	if got := Workers(ProcessBound(), 1000); got > LogicalCPUs() {
		t.Errorf("expected at most %d workers, got %d", LogicalCPUs(), got)
	}
}

func TestWorkers_AtLeastOne(t *testing.T) {
	cases := []struct {
		name      string
		bound     int
		taskCount int
	}{
		{"zero bound", 0, 0},
		{"negative bound", -4, 0},
		{"unknown task count", 8, 0},
		{"single task", 8, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Workers(tc.bound, tc.taskCount); got < 1 {
				t.Errorf("Workers(%d, %d) = %d, want >= 1", tc.bound, tc.taskCount, got)
			}
		})
	}
}
