package loop

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRun_Threads_Square(t *testing.T) {
	results, err := Run(context.Background(), procSquare, []int{1, 2, 3, 4}, Config[None]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 4, 9, 16}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Threads_SharedBroadcast(t *testing.T) {
	env := listEnv{Values: []int{10}}
	results, err := Run(context.Background(), procAdd, []int{1, 2, 3}, Config[listEnv]{Shared: &env})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{11, 12, 13}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Threads_EmptyTasks(t *testing.T) {
	results, err := Run(context.Background(), procSquare, []int{}, Config[None]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestRun_Threads_SingleTask(t *testing.T) {
	results, err := Run(context.Background(), procSquare, []int{42}, Config[None]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0] != 1764 {
		t.Fatalf("expected [1764], got %v", results)
	}
}

func TestRun_Threads_OrderSurvivesCompletionOrder(t *testing.T) {
	// Each task sleeps a random amount, so completion order scrambles;
	// the task index is embedded in its own computation to verify the
	// output slot.
	shuffle := Func(func(ctx context.Context, n int, _ Env[None]) (int, error) {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		return n * 10, nil
	})

	tasks := make([]int, 50)
	for i := range tasks {
		tasks[i] = i
	}

	results, err := Run(context.Background(), shuffle, tasks, Config[None]{Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(results))
	}
	for i, got := range results {
		if got != i*10 {
			t.Errorf("index %d: expected %d, got %d", i, i*10, got)
		}
	}
}

func TestRun_Threads_FailFast(t *testing.T) {
	failing := Func(func(ctx context.Context, n int, _ Env[None]) (int, error) {
		if n == 3 {
			return 0, errRejected
		}
		return n, nil
	})

	_, err := Run(context.Background(), failing, []int{1, 2, 3, 4, 5}, Config[None]{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errRejected) {
		t.Errorf("expected errRejected, got %v", err)
	}
}

func TestRun_Threads_PanicBecomesError(t *testing.T) {
	panicky := Func(func(ctx context.Context, n int, _ Env[None]) (int, error) {
		panic("boom")
	})

	_, err := Run(context.Background(), panicky, []int{1}, Config[None]{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "worker panic") {
		t.Errorf("expected panic to surface as error, got %v", err)
	}
}

func TestRun_Threads_SharedMutationVisible(t *testing.T) {
	// One worker serializes the tasks, so each task sees the appends of
	// the tasks scheduled before it.
	env := listEnv{}
	results, err := Run(context.Background(), procAppend, []int{7, 8, 9}, Config[listEnv]{
		Shared:  &env,
		Workers: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Threads_IsolatedMutationInvisible(t *testing.T) {
	isolated := Func(func(ctx context.Context, n int, env Env[listEnv]) (int, error) {
		env.Isolated.Values = append(env.Isolated.Values, n)
		return len(env.Isolated.Values), nil
	})

	env := listEnv{Values: []int{100}}
	results, err := Run(context.Background(), isolated, []int{1, 2, 3, 4}, Config[listEnv]{
		Isolated: &env,
		Workers:  1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every task got its own copy, so every append lands on a one-element
	// list, and the caller's original is untouched.
	if diff := cmp.Diff([]int{2, 2, 2, 2}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{100}, env.Values); diff != "" {
		t.Errorf("caller environment mutated (-want +got):\n%s", diff)
	}
}

func TestRun_Threads_ProgressReported(t *testing.T) {
	sink := &recordingProgress{}
	tasks := []int{1, 2, 3, 4, 5}

	_, err := Run(context.Background(), procSquare, tasks, Config[None]{Progress: sink})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updates := sink.snapshot()
	if len(updates) != len(tasks) {
		t.Fatalf("expected %d updates, got %d", len(tasks), len(updates))
	}
	for i, u := range updates {
		if u[0] != i+1 {
			t.Errorf("update %d: expected completed %d, got %d", i, i+1, u[0])
		}
		if u[1] != len(tasks) {
			t.Errorf("update %d: expected total %d, got %d", i, len(tasks), u[1])
		}
	}
}

func TestRun_Threads_NegativeWorkers(t *testing.T) {
	_, err := Run(context.Background(), procSquare, []int{1}, Config[None]{Workers: -2})
	if err == nil {
		t.Fatal("expected configuration error, got nil")
	}
}

func TestRun_Threads_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := Func(func(ctx context.Context, n int, _ Env[None]) (int, error) {
		time.Sleep(50 * time.Millisecond)
		return n, nil
	})

	tasks := make([]int, 100)
	_, err := Run(ctx, slow, tasks, Config[None]{})
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
