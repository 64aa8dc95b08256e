// Package tags gathers completion candidates from ctags tag files.
//
// A request flows through three stages: SelectScope picks the tag files that
// live above the active file, Searcher runs the line-search tool (rg by
// default) over each of them with a prefix-anchored pattern, and Assembler
// parses the hits and labels them with kind names.
package tags

import (
	"context"
	"log/slog"

	"github.com/corey/tagcomplete/internal/ports"
)

// Options are the per-request search parameters.
type Options struct {
	Command       []string // argv template; must contain Placeholder
	ExtraArgs     []string
	MaxCandidates int
	Mode          Mode
	StripScope    bool
	Menu          MenuSource
}

// Engine runs completion requests. It holds no per-request state and is safe
// for concurrent use; the resolver's caches are the only shared state.
type Engine struct {
	runner   ports.Runner
	resolver KindResolver
	parallel int
	exists   func(string) bool
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithParallel searches up to n tag files at once.
func WithParallel(n int) EngineOption {
	return func(e *Engine) { e.parallel = n }
}

// WithExists replaces the tag file existence check.
func WithExists(fn func(string) bool) EngineOption {
	return func(e *Engine) { e.exists = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine.
func NewEngine(runner ports.Runner, resolver KindResolver, opts ...EngineOption) *Engine {
	e := &Engine{
		runner:   runner,
		resolver: resolver,
		parallel: 1,
		exists:   FileExists,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Gather returns the candidates for prefix. Problems with individual tag
// files or tools are reported to host and never returned; the only error is
// ctx's.
func (e *Engine) Gather(ctx context.Context, host ports.Host, prefix string, opts Options) ([]ports.Candidate, error) {
	budget := Budget(opts.MaxCandidates)
	if len(opts.Command) == 0 {
		host.Report("tags: empty search command")
		return []ports.Candidate{}, nil
	}

	scope := SelectScope(host.ActiveFile(), host.TagFiles(), e.exists)
	e.logger.Debug("scope selected", "file", host.ActiveFile(), "tagfiles", len(scope))
	if len(scope) == 0 {
		return []ports.Candidate{}, nil
	}

	argv := BuildArgs(opts.Command, opts.ExtraArgs, prefix, budget)
	lines, err := NewSearcher(e.runner, e.parallel, e.logger).Search(ctx, scope, argv, budget, host.Report)
	if err != nil {
		return []ports.Candidate{}, err
	}

	asm := NewAssembler(e.resolver, opts.Mode, opts.StripScope, opts.Menu)
	return asm.Assemble(ctx, lines, budget)
}
