// Package process implements ports.Runner with os/exec. Every external tool
// (the line-search tool and ctags) goes through here. A failing tool never
// aborts the caller: stdout captured so far is returned and the cause is
// attached to the Result for diagnostics.
package process

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/corey/tagcomplete/internal/ports"
)

// lineBreak matches the line boundaries tools emit on every platform.
var lineBreak = regexp.MustCompile(`\r?\n`)

// waitDelay bounds how long Run waits for output pipes after the context ends.
const waitDelay = time.Second

// Runner implements ports.Runner.
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each invocation. Zero (the default) waits forever,
// so a hung tool blocks the request.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger used for failed invocations.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes name with args and no stdin.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ports.Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil // /dev/null
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren may hold the pipes open after a kill.
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := ports.Result{
		Lines:    SplitLines(stdout.String()),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Err:      err,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && !res.NoMatch() {
		r.logger.Debug("tool failed",
			"tool", name,
			"args", args,
			"err", err,
			"stderr", strings.TrimSpace(stderr.String()))
	}
	return res
}

// SplitLines splits tool output on \r?\n. A trailing newline does not
// produce an empty final element; empty output yields no lines.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := lineBreak.Split(s, -1)
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
