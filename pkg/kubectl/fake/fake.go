// Package fake provides an in-memory kubectl.Runner for tests.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/sttts/kexplorer/pkg/kubectl"
)

// Runner answers commands from a fixed table. Unknown commands exit 1.
type Runner struct {
	mu        sync.Mutex
	responses map[string]kubectl.Result
	calls     []string

	// Unavailable makes EnsureAvailable report false.
	Unavailable bool
}

var _ kubectl.Runner = &Runner{}

func New() *Runner {
	return &Runner{responses: map[string]kubectl.Result{}}
}

// On registers stdout for a successful command.
func (r *Runner) On(command, stdout string) *Runner {
	return r.OnResult(command, kubectl.Result{Stdout: stdout})
}

// Fail registers a failing command.
func (r *Runner) Fail(command, stderr string) *Runner {
	return r.OnResult(command, kubectl.Result{ExitCode: 1, Stderr: stderr})
}

func (r *Runner) OnResult(command string, res kubectl.Result) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[command] = res
	return r
}

func (r *Runner) Invoke(_ context.Context, command string) (*kubectl.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, command)
	res, ok := r.responses[command]
	if !ok {
		return &kubectl.Result{ExitCode: 1, Stderr: fmt.Sprintf("unexpected command %q", command)}, nil
	}
	return &res, nil
}

func (r *Runner) EnsureAvailable(context.Context) bool { return !r.Unavailable }

// Calls returns the invoked commands in order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
