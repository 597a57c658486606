package loop

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/nivara-dev/parloop/internal/wire"
)

// workerEnv marks a process as a parloop worker. Worker processes are the
// current binary re-executed with this variable set, which gives them a
// blank, reproducible state: nothing live is inherited from the parent.
const workerEnv = "PARLOOP_WORKER"

// stopGrace is how long a worker gets to exit after its stdin closes
// before it is killed.
const stopGrace = 5 * time.Second

// Init is the worker-process entry point. Host programs must call it at
// the top of main, and test binaries at the top of TestMain, before any
// flag parsing. In an ordinary process it returns immediately; in a
// process spawned as a worker it serves call frames from stdin until EOF
// and then exits, never returning.
func Init() {
	if os.Getenv(workerEnv) == "" {
		return
	}
	serveWorker(wire.NewConn(os.Stdin, os.Stdout))
	os.Exit(0)
}

func serveWorker(conn *wire.Conn) {
	ctx := context.Background()
	for {
		call, err := conn.ReadCall()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "parloop worker: %v\n", err)
			os.Exit(1)
		}

		reply := runCall(ctx, call)
		if err := conn.WriteReply(reply); err != nil {
			fmt.Fprintf(os.Stderr, "parloop worker: %v\n", err)
			os.Exit(1)
		}
	}
}

func runCall(ctx context.Context, call *wire.Call) *wire.Reply {
	a, ok := lookup(call.Work)
	if !ok {
		return &wire.Reply{
			Index: call.Index,
			Err:   fmt.Sprintf("work %q not registered in worker binary", call.Work),
		}
	}
	return a(ctx, call)
}

// workerProc is the parent-side handle on one spawned worker process.
type workerProc struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	conn  *wire.Conn
}

// spawnWorker starts one fresh worker process and connects its frame
// protocol.
func spawnWorker() (*workerProc, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate worker binary: %w", err)
	}

	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), workerEnv+"=1")
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker: %w", err)
	}

	return &workerProc{
		cmd:   cmd,
		stdin: stdin,
		conn:  wire.NewConn(stdout, stdin),
	}, nil
}

// call sends one unit and blocks for its reply.
func (w *workerProc) call(call *wire.Call) (*wire.Reply, error) {
	if err := w.conn.WriteCall(call); err != nil {
		return nil, err
	}
	return w.conn.ReadReply()
}

// stop closes the worker's stdin so it exits on its own, then kills it if
// it lingers past the grace period. The process is always reaped.
func (w *workerProc) stop() {
	_ = w.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- w.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(stopGrace):
		_ = w.cmd.Process.Kill()
		<-done
	}
}

// kill terminates the worker immediately and reaps it. Used by the
// timeout wrapper, where abandoning the process would let runaway work
// keep burning CPU.
func (w *workerProc) kill() {
	_ = w.stdin.Close()
	_ = w.cmd.Process.Kill()
	_ = w.cmd.Wait()
}
