// Package meta resolves ctags metadata: the language of a source file and the
// kind-code table of a language. Both lookups shell out to ctags once per
// distinct key and are memoized for the lifetime of the Resolver.
package meta

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/corey/tagcomplete/internal/ports"
)

// DefaultCtags is the ctags executable used when none is configured.
const DefaultCtags = "ctags"

// languageSep separates the descriptor from the language in
// `ctags --print-language` output ("src/a.c: C").
var languageSep = regexp.MustCompile(`:\s+`)

// Resolver owns the path->language and language->kinds caches.
// Construct one per process and share it across requests.
type Resolver struct {
	mu     sync.RWMutex // guards runner
	runner ports.Runner
	ctags  string
	store  ports.KindStore
	logger *slog.Logger

	langs *Cache[string, string]
	kinds *Cache[string, map[string]string]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCtags overrides the ctags executable.
func WithCtags(path string) Option {
	return func(r *Resolver) {
		if path != "" {
			r.ctags = path
		}
	}
}

// WithKindStore seeds kind tables from (and saves them to) persistent storage.
func WithKindStore(s ports.KindStore) Option {
	return func(r *Resolver) { r.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver backed by runner.
func NewResolver(runner ports.Runner, opts ...Option) *Resolver {
	r := &Resolver{
		runner: runner,
		ctags:  DefaultCtags,
		logger: slog.Default(),
		langs:  NewCache[string, string](),
		kinds:  NewCache[string, map[string]string](),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Language returns the ctags language of path, or "" when it is unknown.
// An empty path short-circuits without running ctags. Undetected languages
// are cached too, so each path costs at most one invocation.
func (r *Resolver) Language(ctx context.Context, path string) string {
	if path == "" {
		return ""
	}
	return r.langs.GetOrCompute(path, func() (string, bool) {
		res := r.run(ctx, "--print-language", path)
		return ParseLanguage(res.Lines), ctx.Err() == nil
	})
}

// Kinds returns the full kind-code -> kind-name table for language.
// The returned map is shared; callers must not modify it.
func (r *Resolver) Kinds(ctx context.Context, language string) map[string]string {
	if language == "" {
		return nil
	}
	return r.kinds.GetOrCompute(language, func() (map[string]string, bool) {
		if kinds := r.loadKinds(language); kinds != nil {
			return kinds, true
		}
		res := r.run(ctx, "--machinable", "--with-list-header=no", "--list-kinds-full="+language)
		if ctx.Err() != nil {
			return nil, false
		}
		kinds := ParseKinds(res.Lines)
		if res.OK() && len(kinds) > 0 {
			r.saveKinds(language, kinds)
		}
		return kinds, true
	})
}

// Kind returns the kind name for code in language, or "".
func (r *Resolver) Kind(ctx context.Context, language, code string) string {
	if language == "" {
		return ""
	}
	return r.Kinds(ctx, language)[code]
}

// SetRunner replaces the runner used for later lookups. Cached results are
// kept; lookups already in flight finish on the old runner.
func (r *Resolver) SetRunner(runner ports.Runner) {
	r.mu.Lock()
	r.runner = runner
	r.mu.Unlock()
}

// Ctags returns the ctags executable; persisted tables are keyed by it.
func (r *Resolver) Ctags() string {
	return r.ctags
}

func (r *Resolver) run(ctx context.Context, args ...string) ports.Result {
	r.mu.RLock()
	runner := r.runner
	r.mu.RUnlock()
	return runner.Run(ctx, r.ctags, args...)
}

// Stats reports cache sizes.
type Stats struct {
	Languages  int `json:"languages"`
	KindTables int `json:"kind_tables"`
}

// Stats returns the current cache sizes.
func (r *Resolver) Stats() Stats {
	return Stats{Languages: r.langs.Len(), KindTables: r.kinds.Len()}
}

func (r *Resolver) loadKinds(language string) map[string]string {
	if r.store == nil {
		return nil
	}
	kinds, err := r.store.LoadKinds(r.ctags, language)
	if err != nil {
		r.logger.Warn("load kinds", "language", language, "err", err)
		return nil
	}
	return kinds
}

func (r *Resolver) saveKinds(language string, kinds map[string]string) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveKinds(r.ctags, language, kinds); err != nil {
		r.logger.Warn("save kinds", "language", language, "err", err)
	}
}

// ParseLanguage extracts the language from `ctags --print-language` output.
// Only the first line is read; the language is whatever follows the last
// ": " separator.
func ParseLanguage(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	parts := languageSep.Split(lines[0], -1)
	return strings.TrimSpace(parts[len(parts)-1])
}

// ParseKinds parses `ctags --machinable --with-list-header=no
// --list-kinds-full=LANG` output. Each record is tab separated with the
// code and the name as the first two fields; shorter lines are skipped.
func ParseKinds(lines []string) map[string]string {
	kinds := make(map[string]string, len(lines))
	for _, line := range lines {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		kinds[parts[0]] = parts[1]
	}
	return kinds
}
