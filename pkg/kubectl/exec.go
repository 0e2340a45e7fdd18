package kubectl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/mattn/go-shellwords"
)

// ExecRunner runs a kubectl binary as a child process. The exported fields
// are set before first use; Reconfigure changes them afterwards.
type ExecRunner struct {
	// Binary is the executable, "kubectl" when empty.
	Binary string
	// Kubeconfig is passed as --kubeconfig when set.
	Kubeconfig string
	// UseWSL runs the binary through wsl.exe.
	UseWSL bool
	Log    logr.Logger

	mu      sync.RWMutex
	checked bool
	found   bool
}

var _ Runner = &ExecRunner{}

// NewExecRunner returns a runner for the given binary and kubeconfig.
func NewExecRunner(binary, kubeconfig string, log logr.Logger) *ExecRunner {
	return &ExecRunner{Binary: binary, Kubeconfig: kubeconfig, Log: log}
}

// Reconfigure points the runner at another binary or kubeconfig. Commands
// already running are not affected.
func (r *ExecRunner) Reconfigure(binary, kubeconfig string, useWSL bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if binary != r.Binary || useWSL != r.UseWSL {
		r.checked = false
	}
	r.Binary, r.Kubeconfig, r.UseWSL = binary, kubeconfig, useWSL
}

func (r *ExecRunner) binary() string {
	if r.Binary == "" {
		return "kubectl"
	}
	return r.Binary
}

// EnsureAvailable looks the binary up once per configuration and caches the answer.
func (r *ExecRunner) EnsureAvailable(context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.checked {
		return r.found
	}
	bin := r.binary()
	if r.UseWSL {
		bin = "wsl.exe"
	}
	_, err := exec.LookPath(bin)
	r.checked, r.found = true, err == nil
	if !r.found {
		r.Log.Info("kubectl binary not found", "binary", bin)
	}
	return r.found
}

// Invoke parses the command with shell quoting rules and runs it.
func (r *ExecRunner) Invoke(ctx context.Context, command string) (*Result, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	r.mu.RLock()
	bin, kubeconfig, useWSL := r.binary(), r.Kubeconfig, r.UseWSL
	r.mu.RUnlock()

	if kubeconfig != "" {
		args = append([]string{"--kubeconfig", kubeconfig}, args...)
	}
	if useWSL {
		args = append([]string{bin}, args...)
		bin = "wsl.exe"
	}

	//nolint:gosec // arguments come from the explorer, not from users.
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Log.V(1).Info("invoking kubectl", "args", strings.Join(args, " "))
	err = cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("run %s: %w", bin, err)
	}
	return res, nil
}
