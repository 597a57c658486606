package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/nivara-dev/parloop/loop"
)

// Job is a parsed unit of CLI work: a command template plus the per-task
// argument rows to fan out over.
type Job struct {
	Mode    string     `toml:"mode"`
	Workers int        `toml:"workers"`
	Timeout duration   `toml:"timeout"`
	Command []string   `toml:"command"`
	Env     []string   `toml:"env"`
	Tasks   []TaskSpec `toml:"tasks"`
}

// TaskSpec is one row of per-task arguments, appended to the command
// template.
type TaskSpec struct {
	Args []string `toml:"args"`
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// loadJob reads a TOML job file.
func loadJob(path string) (*Job, error) {
	var job Job
	if _, err := toml.DecodeFile(path, &job); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}
	if len(job.Command) == 0 {
		return nil, fmt.Errorf("job file %s: empty command", path)
	}
	return &job, nil
}

// jobFromStdin builds a job from a command line, one task per input line.
func jobFromStdin(command []string, in io.Reader) (*Job, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("no command given; pass one after -- or use --jobs")
	}

	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return &Job{
		Command: command,
		Tasks:   lo.Map(lines, func(line string, _ int) TaskSpec { return TaskSpec{Args: []string{line}} }),
	}, nil
}

func (j *Job) mode() (loop.Mode, error) {
	switch j.Mode {
	case "", "threads":
		return loop.Threads, nil
	case "processes":
		return loop.Processes, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want threads or processes)", j.Mode)
	}
}

// tasks expands the argument rows into exec tasks.
func (j *Job) tasks() []ExecTask {
	return lo.Map(j.Tasks, func(spec TaskSpec, _ int) ExecTask {
		return ExecTask{Argv: append(append([]string{}, j.Command...), spec.Args...)}
	})
}

// environ builds the broadcast environment for every command.
func (j *Job) environ() *ExecEnv {
	if len(j.Env) == 0 {
		return nil
	}
	return &ExecEnv{Vars: append(os.Environ(), j.Env...)}
}
