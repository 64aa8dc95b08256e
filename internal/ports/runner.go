// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "context"

// Result is the captured output of one external tool invocation.
//
// Lines is always usable: a missing binary or non-zero exit leaves it empty
// or partial, never nil-with-panic. Err records why the invocation failed and
// exists for diagnostics only; callers keep going with whatever Lines holds.
type Result struct {
	Lines    []string
	Stderr   []byte
	ExitCode int // -1 when the tool never started or was killed
	Err      error
}

// OK reports whether the tool ran and exited zero.
func (r Result) OK() bool { return r.Err == nil }

// NoMatch reports the grep-family "ran fine, matched nothing" outcome:
// exit status 1 with nothing on stderr.
func (r Result) NoMatch() bool { return r.ExitCode == 1 && len(r.Stderr) == 0 }

// Runner executes external tools (rg, ctags). The concrete implementation
// lives in internal/adapters/process. No domain code spawns a subprocess
// except through this interface.
type Runner interface {
	// Run executes name with args, stdin closed, and returns stdout split on
	// \r?\n. It never returns an error value: failures are folded into Result.
	Run(ctx context.Context, name string, args ...string) Result
}
