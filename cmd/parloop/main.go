// Command parloop fans a shell command out over many argument rows,
// running them on a goroutine pool or across worker processes.
//
// Tasks come from a TOML job file or from stdin lines:
//
//	parloop --jobs build.toml
//	ls *.png | parloop --mode processes -- optipng {}
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/nivara-dev/parloop/loop"
)

func main() {
	loop.Init()

	var (
		jobsPath   string
		modeFlag   string
		workers    int
		timeout    time.Duration
		noProgress bool
		verbose    bool
	)
	flag.StringVar(&jobsPath, "jobs", "", "TOML job file describing the command and tasks")
	flag.StringVar(&modeFlag, "mode", "", "execution mode: threads or processes")
	flag.IntVar(&workers, "workers", 0, "pool size (0 picks a bound for the mode)")
	flag.DurationVar(&timeout, "timeout", 0, "hard per-command deadline (0 disables)")
	flag.BoolVar(&noProgress, "no-progress", false, "suppress the progress bar")
	flag.BoolVar(&verbose, "verbose", false, "log pool activity")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(jobsPath, modeFlag, workers, timeout, noProgress, logger); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(jobsPath, modeFlag string, workers int, timeout time.Duration, noProgress bool, logger *log.Logger) error {
	var (
		job *Job
		err error
	)
	if jobsPath != "" {
		job, err = loadJob(jobsPath)
	} else {
		job, err = jobFromStdin(flag.Args(), os.Stdin)
	}
	if err != nil {
		return err
	}

	// Command-line flags override job file settings.
	if modeFlag != "" {
		job.Mode = modeFlag
	}
	if workers > 0 {
		job.Workers = workers
	}
	if timeout > 0 {
		job.Timeout.Duration = timeout
	}

	mode, err := job.mode()
	if err != nil {
		return err
	}

	tasks := job.tasks()
	if len(tasks) == 0 {
		return fmt.Errorf("no tasks to run")
	}

	work := execWork
	if job.Timeout.Duration > 0 {
		// The timeout wrapper already gives each command a dedicated
		// worker process, so the outer pool stays on goroutines.
		if mode == loop.Processes {
			logger.Warn("timeout implies per-command processes; running outer pool in threads mode")
			mode = loop.Threads
		}
		work = loop.Func(loop.WithTimeout(job.Timeout.Duration, "command exceeded timeout", execWork))
	}

	cfg := loop.Config[ExecEnv]{
		Mode:    mode,
		Workers: job.Workers,
		Shared:  job.environ(),
		Logger:  logger,
	}
	if !noProgress {
		cfg.Progress = loop.NewProgressBar(len(tasks), mode)
	}

	results, err := loop.Run(context.Background(), work, tasks, cfg)
	if err != nil {
		return err
	}

	renderSummary(os.Stdout, results)
	if n := countFailed(results); n > 0 {
		return fmt.Errorf("%d command(s) exited nonzero", n)
	}
	return nil
}
