// Package shell runs external commands and captures their output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Options controls a single command invocation.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs an external command to completion.
//
// Run returns an error when the command cannot be started or exits non-zero.
// Callers rely on that error rather than inspecting ExitCode.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Options) (Result, error)
}

// CommandError reports a command that could not be started or exited non-zero.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", line, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", line, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts Options) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	return result, &CommandError{
		Name:     name,
		Args:     redactArgs(args),
		ExitCode: result.ExitCode,
		Stderr:   strings.TrimSpace(result.Stderr),
		Err:      err,
	}
}

// redactArgs hides inline passwords so they never reach error messages or logs.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "--password=") {
			out[i] = "--password=***"
			continue
		}
		if strings.HasPrefix(arg, "--dbpass=") {
			out[i] = "--dbpass=***"
			continue
		}
		if strings.HasPrefix(arg, "--admin_password=") {
			out[i] = "--admin_password=***"
			continue
		}
		out[i] = arg
	}
	return out
}
