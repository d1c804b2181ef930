// Package shelltest provides a scripted shell.Runner for tests.
package shelltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wpstack/wpstack/internal/shell"
)

// Call records one invocation seen by a Runner.
type Call struct {
	Name string
	Args []string
	Dir  string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type rule struct {
	name     string
	contains []string
	result   shell.Result
	err      error
}

func (r rule) matches(name string, args []string) bool {
	if r.name != name {
		return false
	}
	for _, want := range r.contains {
		found := false
		for _, arg := range args {
			if arg == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Runner answers commands from rules registered with Succeed and Fail.
// Rules are matched in registration order; the first rule whose name equals
// the command and whose every expected argument is present wins. Commands
// without a matching rule fail as if the binary did not exist.
type Runner struct {
	mu    sync.Mutex
	rules []rule
	calls []Call
}

// New returns an empty Runner.
func New() *Runner {
	return &Runner{}
}

// Succeed registers a successful response for name when all args are present.
func (r *Runner) Succeed(stdout string, name string, args ...string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{name: name, contains: args, result: shell.Result{Stdout: stdout}})
	return r
}

// Fail registers a failing response for name when all args are present.
func (r *Runner) Fail(stderr string, name string, args ...string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{
		name:     name,
		contains: args,
		result:   shell.Result{Stderr: stderr, ExitCode: 1},
		err: &shell.CommandError{
			Name:     name,
			Args:     args,
			ExitCode: 1,
			Stderr:   stderr,
			Err:      fmt.Errorf("exit status 1"),
		},
	})
	return r
}

// Run implements shell.Runner.
func (r *Runner) Run(_ context.Context, name string, args []string, opts shell.Options) (shell.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...), Dir: opts.Dir})
	for _, rl := range r.rules {
		if rl.matches(name, args) {
			return rl.result, rl.err
		}
	}

	return shell.Result{ExitCode: -1}, &shell.CommandError{
		Name:     name,
		Args:     args,
		ExitCode: -1,
		Err:      fmt.Errorf("exec: %q: executable file not found in $PATH", name),
	}
}

// Calls returns a copy of every recorded invocation in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallCount counts invocations of name that carried all of args.
func (r *Runner) CallCount(name string, args ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	probe := rule{name: name, contains: args}
	count := 0
	for _, c := range r.calls {
		if probe.matches(c.Name, c.Args) {
			count++
		}
	}
	return count
}

// Lines returns every recorded invocation rendered as a command line.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.Line())
	}
	return lines
}
