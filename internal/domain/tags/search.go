package tags

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/corey/tagcomplete/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Placeholder marks where the escaped prefix goes in the command template.
const Placeholder = "{PLACEHOLDER}"

// MaxBudget is the hard upper bound on candidates per request.
const MaxBudget = 2000

// Budget clamps a configured maximum to [1, MaxBudget].
func Budget(n int) int {
	return max(1, min(n, MaxBudget))
}

// patternEscaper escapes the regex metacharacters a completion prefix may
// realistically contain. The set is fixed; regexp.QuoteMeta escapes more, and
// prefixes with other metacharacters ("(", "+", "|") reach the tool as-is.
var patternEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	`^`, `\^`,
	`$`, `\$`,
	`.`, `\.`,
	`*`, `\*`,
)

// EscapePattern escapes prefix for substitution into a search pattern.
func EscapePattern(prefix string) string {
	return patternEscaper.Replace(prefix)
}

// BuildArgs renders the search argv for one request: the prefix is escaped
// into every Placeholder occurrence, extraArgs follow the template, and the
// cap goes last as --max-count. The tag file path is appended per file.
func BuildArgs(command, extraArgs []string, prefix string, budget int) []string {
	pattern := EscapePattern(prefix)
	argv := make([]string, 0, len(command)+len(extraArgs)+2)
	for _, a := range command {
		argv = append(argv, strings.ReplaceAll(a, Placeholder, pattern))
	}
	argv = append(argv, extraArgs...)
	return append(argv, "--max-count", strconv.Itoa(budget))
}

// Line is one raw search hit together with the tag file it came from.
type Line struct {
	Text    string
	Dir     string // directory of TagFile; relative source paths resolve here
	TagFile string
}

// Searcher runs the line-search tool over scoped tag files.
type Searcher struct {
	runner   ports.Runner
	parallel int
	logger   *slog.Logger
}

// NewSearcher creates a Searcher. parallel > 1 searches that many tag files
// at a time; output order is always scope order.
func NewSearcher(runner ports.Runner, parallel int, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{runner: runner, parallel: max(1, parallel), logger: logger}
}

// fileHits is the outcome of searching a single tag file.
type fileHits struct {
	lines []Line
	diag  string
}

// Search runs argv against each tag file in scope and accumulates hits until
// budget lines are collected or the scope is exhausted. The budget is checked
// before every file (or window of files when searching in parallel), so a
// file that starts under budget contributes all of its lines.
//
// Tool failures never stop the scan; their diagnostics go to report.
func (s *Searcher) Search(ctx context.Context, scope []TagFile, argv []string, budget int, report func(string)) ([]Line, error) {
	if len(argv) == 0 {
		return nil, nil
	}
	var lines []Line
	for start := 0; start < len(scope); start += s.parallel {
		if len(lines) >= budget {
			break
		}
		if err := ctx.Err(); err != nil {
			return lines, err
		}
		window := scope[start:min(start+s.parallel, len(scope))]
		for _, hits := range s.searchWindow(ctx, window, argv) {
			lines = append(lines, hits.lines...)
			if hits.diag != "" && report != nil {
				report(hits.diag)
			}
		}
	}
	return lines, nil
}

func (s *Searcher) searchWindow(ctx context.Context, window []TagFile, argv []string) []fileHits {
	results := make([]fileHits, len(window))
	if len(window) == 1 {
		results[0] = s.searchFile(ctx, window[0], argv)
		return results
	}
	var g errgroup.Group
	for i, tf := range window {
		g.Go(func() error {
			results[i] = s.searchFile(ctx, tf, argv)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Searcher) searchFile(ctx context.Context, tf TagFile, argv []string) fileHits {
	args := make([]string, 0, len(argv))
	args = append(args, argv[1:]...)
	args = append(args, tf.Path)

	res := s.runner.Run(ctx, argv[0], args...)
	hits := fileHits{lines: make([]Line, 0, len(res.Lines))}
	for _, text := range res.Lines {
		hits.lines = append(hits.lines, Line{Text: text, Dir: tf.Dir, TagFile: tf.Path})
	}
	if !res.OK() && !res.NoMatch() {
		hits.diag = fmt.Sprintf("%s failed on %s: %v", argv[0], tf.Path, res.Err)
		s.logger.Debug("search failed", "tagfile", tf.Path, "err", res.Err)
	}
	return hits
}
