package tags

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/corey/tagcomplete/internal/ports"
)

// fakeTools emulates rg over in-memory tag files and ctags over fixed
// language/kind tables, recording every invocation.
type fakeTools struct {
	mu     sync.Mutex
	files  map[string]string   // tag file path -> contents
	broken map[string]bool     // tag files whose search fails with exit 2
	langs  map[string]string   // source path -> ctags language
	kinds  map[string][]string // language -> --list-kinds-full output
	calls  []string
}

func newFakeTools() *fakeTools {
	return &fakeTools{
		files:  map[string]string{},
		broken: map[string]bool{},
		langs:  map[string]string{},
		kinds:  map[string][]string{},
	}
}

func (f *fakeTools) exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok || f.broken[path]
}

func (f *fakeTools) Run(_ context.Context, name string, args ...string) ports.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))

	switch name {
	case "rg":
		return f.rg(args)
	case "ctags":
		return f.ctags(args)
	}
	return ports.Result{ExitCode: -1, Err: errors.New("executable file not found")}
}

func (f *fakeTools) rg(args []string) ports.Result {
	path := args[len(args)-1]
	if f.broken[path] {
		return ports.Result{ExitCode: 2, Stderr: []byte("rg: broken"), Err: errors.New("exit status 2")}
	}
	limit := -1
	for i, a := range args {
		if a == "--max-count" {
			limit, _ = strconv.Atoi(args[i+1])
		}
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return ports.Result{ExitCode: 2, Stderr: []byte("rg: regex parse error"), Err: errors.New("exit status 2")}
	}
	var out []string
	for _, line := range strings.Split(f.files[path], "\n") {
		if line == "" || !re.MatchString(line) {
			continue
		}
		if limit >= 0 && len(out) >= limit {
			break
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return ports.Result{ExitCode: 1, Err: errors.New("exit status 1")}
	}
	return ports.Result{Lines: out}
}

func (f *fakeTools) ctags(args []string) ports.Result {
	if len(args) == 2 && args[0] == "--print-language" {
		if lang, ok := f.langs[args[1]]; ok {
			return ports.Result{Lines: []string{args[1] + ": " + lang}}
		}
		return ports.Result{}
	}
	last := args[len(args)-1]
	if strings.HasPrefix(last, "--list-kinds-full=") {
		return ports.Result{Lines: f.kinds[strings.TrimPrefix(last, "--list-kinds-full=")]}
	}
	return ports.Result{}
}

// count returns how many recorded calls start with prefix.
func (f *fakeTools) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// stubResolver resolves languages and kinds from fixed maps and counts calls.
type stubResolver struct {
	langs     map[string]string
	kinds     map[string]map[string]string
	langCalls []string
}

func (s *stubResolver) Language(_ context.Context, path string) string {
	s.langCalls = append(s.langCalls, path)
	return s.langs[path]
}

func (s *stubResolver) Kind(_ context.Context, language, code string) string {
	return s.kinds[language][code]
}

// tagLines joins tag records into file contents.
func tagLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
