// Package kubectl is the narrow command-runner contract the explorer uses to
// talk to a cluster, plus an implementation that shells out to kubectl.
package kubectl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"sigs.k8s.io/yaml"
)

var (
	// ErrCommandFailed is returned when kubectl exits non-zero.
	ErrCommandFailed = errors.New("command failed")

	// ErrParse is returned when command output cannot be decoded.
	ErrParse = errors.New("unparsable output")

	// ErrEmptyCommand is returned for blank command strings.
	ErrEmptyCommand = errors.New("empty command")
)

// Result is the outcome of one invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner invokes kubectl subcommands, e.g. "get pods -o json".
type Runner interface {
	// Invoke runs the command. A non-zero exit is reported in Result, not as
	// an error; errors mean the command could not be run at all.
	Invoke(ctx context.Context, command string) (*Result, error)
	// EnsureAvailable reports whether the binary can be found.
	EnsureAvailable(ctx context.Context) bool
}

// CommandError describes a failed invocation.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("kubectl %s: %s", e.Command, msg)
}

func (e *CommandError) Unwrap() error { return ErrCommandFailed }

// Succeeded runs the command and returns the result only when it exited zero.
func Succeeded(ctx context.Context, r Runner, command string) (*Result, error) {
	res, err := r.Invoke(ctx, command)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &CommandError{Command: command, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

// ReadJSON runs the command and decodes stdout into T.
func ReadJSON[T any](ctx context.Context, r Runner, command string) (T, error) {
	var out T
	res, err := Succeeded(ctx, r, command)
	if err != nil {
		return out, err
	}
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(res.Stdout)), &out); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrParse, command, err)
	}
	return out, nil
}

// ReadTable runs the command and parses its column output.
func ReadTable(ctx context.Context, r Runner, command string) ([]map[string]string, error) {
	res, err := Succeeded(ctx, r, command)
	if err != nil {
		return nil, err
	}
	return ParseTable(res.Stdout), nil
}

var columnSeparator = regexp.MustCompile(`\s\s+`)

// ParseTable parses kubectl's default column output. Header names become
// lower-case keys; columns are separated by two or more spaces.
func ParseTable(output string) []map[string]string {
	lines := make([]string, 0, 16)
	for _, l := range strings.Split(output, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	headers := columnSeparator.Split(strings.TrimSpace(lines[0]), -1)
	for i := range headers {
		headers[i] = strings.ToLower(headers[i])
	}
	rows := make([]map[string]string, 0, len(lines)-1)
	for _, l := range lines[1:] {
		cells := columnSeparator.Split(strings.TrimSpace(l), -1)
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
