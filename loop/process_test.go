package loop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun_Processes_Square(t *testing.T) {
	results, err := Run(context.Background(), procSquare, []int{1, 2, 3, 4, 5}, Config[None]{
		Mode: Processes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 4, 9, 16, 25}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Processes_SharedBroadcast(t *testing.T) {
	env := listEnv{Values: []int{10}}
	results, err := Run(context.Background(), procAdd, []int{1, 2, 3}, Config[listEnv]{
		Mode:   Processes,
		Shared: &env,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{11, 12, 13}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Processes_EmptyTasks(t *testing.T) {
	results, err := Run(context.Background(), procSquare, []int{}, Config[None]{Mode: Processes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestRun_Processes_UnregisteredWork(t *testing.T) {
	bare := Func(func(ctx context.Context, n int, _ Env[None]) (int, error) {
		return n, nil
	})

	_, err := Run(context.Background(), bare, []int{1}, Config[None]{Mode: Processes})
	if !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestRun_Processes_UntransferableTask(t *testing.T) {
	// Channels cannot cross the process boundary; the loop must reject
	// the unit at submission, not hang or fail at completion.
	_, err := Run(context.Background(), procChan, []chan int{make(chan int)}, Config[None]{
		Mode: Processes,
	})
	if err == nil {
		t.Fatal("expected submission error, got nil")
	}
	var submitErr *SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("expected *SubmitError, got %T: %v", err, err)
	}
	if submitErr.Index != 0 {
		t.Errorf("expected index 0, got %d", submitErr.Index)
	}
}

func TestRun_Processes_SharedMutationInvisible(t *testing.T) {
	// The same work that accumulates across tasks in thread mode: here
	// every task receives the environment by value, so every append
	// lands on a fresh copy and the caller's original stays untouched.
	env := listEnv{}
	results, err := Run(context.Background(), procAppend, []int{7, 8, 9}, Config[listEnv]{
		Mode:    Processes,
		Shared:  &env,
		Workers: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 1, 1}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if len(env.Values) != 0 {
		t.Errorf("caller environment mutated: %v", env.Values)
	}
}

func TestRun_Processes_TaskFailureFailsLoop(t *testing.T) {
	_, err := Run(context.Background(), procFail, []int{1, 2, 3, 4}, Config[None]{Mode: Processes})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "task value 3 rejected") {
		t.Errorf("expected task failure message, got %v", err)
	}
}

func TestRun_Processes_ProgressReported(t *testing.T) {
	sink := &recordingProgress{}
	tasks := []int{1, 2, 3}

	_, err := Run(context.Background(), procSquare, tasks, Config[None]{
		Mode:     Processes,
		Progress: sink,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(sink.snapshot()); got != len(tasks) {
		t.Fatalf("expected %d updates, got %d", len(tasks), got)
	}
}
