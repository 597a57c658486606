package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/nivara-dev/parloop/loop"
)

// ExecTask is one command invocation.
type ExecTask struct {
	Argv []string
}

// ExecEnv is the broadcast environment handed to every invocation.
type ExecEnv struct {
	Vars []string
}

// ExecResult captures the outcome of one invocation. Nonzero exits are
// data, not errors, so one failing command does not abort the whole run.
type ExecResult struct {
	Argv     []string
	Output   string
	ExitCode int
	Elapsed  time.Duration
}

// execWork runs commands and is registered so process mode and the
// timeout wrapper can reach it from worker binaries.
var execWork = loop.Register("exec", runCommand)

func runCommand(ctx context.Context, task ExecTask, env loop.Env[ExecEnv]) (ExecResult, error) {
	if len(task.Argv) == 0 {
		return ExecResult{}, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, task.Argv[0], task.Argv[1:]...)
	if env.Shared != nil {
		cmd.Env = env.Shared.Vars
	} else if env.Isolated != nil {
		cmd.Env = env.Isolated.Vars
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := ExecResult{
		Argv:    task.Argv,
		Output:  out.String(),
		Elapsed: elapsed,
	}
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return ExecResult{}, fmt.Errorf("start %s: %w", task.Argv[0], err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}
