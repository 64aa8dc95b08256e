package tags

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/corey/tagcomplete/internal/domain/meta"
	"github.com/corey/tagcomplete/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() Options {
	return Options{Command: defaultCommand, MaxCandidates: 200}
}

// newScenario wires an Engine to fake rg/ctags with the single tag file
// /proj/src/tags describing a C function in /proj/src/a.c.
func newScenario() (*fakeTools, *Engine) {
	f := newFakeTools()
	f.files["/proj/src/tags"] = tagLines("foo\t/proj/src/a.c\t/^int foo(){}$/;\"\tf")
	f.langs["/proj/src/a.c"] = "c"
	f.kinds["c"] = []string{"f\tfunction\tfunction definitions"}
	e := NewEngine(f, meta.NewResolver(f), WithExists(f.exists))
	return f, e
}

func TestGather_FunctionCandidate(t *testing.T) {
	_, e := newScenario()
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}

	opts := defaultOptions()
	opts.Menu = MenuFromTagFile
	got, err := e.Gather(context.Background(), host, "fo", opts)
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{{Word: "foo", Kind: "function", Menu: "tags"}}, got)
	assert.Empty(t, host.Messages)
}

func TestGather_DefaultMenuIsSourceFile(t *testing.T) {
	_, e := newScenario()
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}

	got, err := e.Gather(context.Background(), host, "fo", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{{Word: "foo", Kind: "function", Menu: "a.c"}}, got)
}

func TestGather_OutOfScope(t *testing.T) {
	f, e := newScenario()
	host := &ports.StaticHost{File: "/proj/other/b.c", Tags: []string{"/proj/src/tags"}}

	got, err := e.Gather(context.Background(), host, "fo", defaultOptions())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, f.calls)
}

func TestGather_MissingTagFileSkipped(t *testing.T) {
	f, e := newScenario()
	f.files["/proj/tags"] = tagLines("format\tlib/fmt.c\t/^void format()$/;\"\tf")
	f.langs["/proj/lib/fmt.c"] = "c"
	host := &ports.StaticHost{
		File: "/proj/src/a.c",
		Tags: []string{"/proj/src/missing/../nothere/tags", "/proj/src/tags", "/proj/tags"},
	}

	got, err := e.Gather(context.Background(), host, "fo", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{
		{Word: "foo", Kind: "function", Menu: "a.c"},
		{Word: "format", Kind: "function", Menu: "fmt.c"},
	}, got)
	assert.Empty(t, host.Messages)
}

func TestGather_MalformedLineDiscarded(t *testing.T) {
	f, e := newScenario()
	f.files["/proj/src/tags"] = tagLines(
		"bar\tx.c\t/^y$/;\"",
		"baz\tx.c\t/^z$/;\"\tf",
	)
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}

	got, err := e.Gather(context.Background(), host, "ba", defaultOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "baz", got[0].Word)
	assert.Equal(t, "", got[0].Kind, "x.c has no detectable language")
}

func TestGather_MaxCountClamped(t *testing.T) {
	f, e := newScenario()
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}

	opts := defaultOptions()
	opts.MaxCandidates = 5000
	_, err := e.Gather(context.Background(), host, "fo", opts)
	require.NoError(t, err)
	require.Equal(t, 1, f.count("rg "))
	assert.True(t, strings.HasSuffix(f.calls[0], "--max-count 2000 /proj/src/tags"), f.calls[0])
}

func TestGather_LanguageResolvedOncePerPath(t *testing.T) {
	f, e := newScenario()
	f.files["/proj/src/tags"] = tagLines(
		"foo\t/proj/src/a.c\t/^int foo(){}$/;\"\tf",
		"food\t/proj/src/a.c\t/^int food(){}$/;\"\tf",
	)
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}

	got, err := e.Gather(context.Background(), host, "fo", defaultOptions())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, f.count("ctags --print-language /proj/src/a.c"))
	assert.Equal(t, 1, f.count("ctags --machinable"))

	// caches outlive the request
	_, err = e.Gather(context.Background(), host, "foo", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("ctags --print-language"))
	assert.Equal(t, 1, f.count("ctags --machinable"))
}

func TestGather_BudgetBoundsAndMonotonicity(t *testing.T) {
	f := newFakeTools()
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("sym%02d\tm.go\t/^x$/;\"\tf", i))
	}
	f.files["/r/tags"] = tagLines(lines[:20]...)
	f.files["/r/pkg/tags"] = tagLines(lines[20:]...)
	e := NewEngine(f, nil, WithExists(f.exists))
	host := &ports.StaticHost{File: "/r/pkg/m.go", Tags: []string{"/r/pkg/tags", "/r/tags"}}

	prev := -1
	for _, limit := range []int{5000, 100, 25, 10, 3, 1, 0} {
		opts := Options{Command: defaultCommand, MaxCandidates: limit, Mode: ModeVerbatim}
		got, err := e.Gather(context.Background(), host, "sym", opts)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), Budget(limit))
		if prev >= 0 {
			assert.LessOrEqual(t, len(got), prev, "max=%d", limit)
		}
		prev = len(got)
	}
}

func TestGather_BudgetTruncatesAcrossFiles(t *testing.T) {
	f := newFakeTools()
	f.files["/r/pkg/tags"] = tagLines("aa\tx.go\t/^x$/;\"\tf", "ab\tx.go\t/^x$/;\"\tf")
	f.files["/r/tags"] = tagLines("ac\ty.go\t/^x$/;\"\tv", "ad\ty.go\t/^x$/;\"\tv")
	e := NewEngine(f, nil, WithExists(f.exists))
	host := &ports.StaticHost{File: "/r/pkg/m.go", Tags: []string{"/r/pkg/tags", "/r/tags"}}

	got, err := e.Gather(context.Background(), host, "a",
		Options{Command: defaultCommand, MaxCandidates: 3, Mode: ModeVerbatim})
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{
		{Word: "aa", Kind: "f", Menu: "x.go"},
		{Word: "ab", Kind: "f", Menu: "x.go"},
		{Word: "ac", Kind: "v", Menu: "y.go"},
	}, got)
}

func TestGather_VerbatimStripsScopeAndKindKey(t *testing.T) {
	f := newFakeTools()
	f.files["/r/tags"] = tagLines("Widget::draw\tw.cc\t/^void Widget::draw()$/;\"\tkind:function\tclass:Widget")
	e := NewEngine(f, nil, WithExists(f.exists))
	host := &ports.StaticHost{File: "/r/w.cc", Tags: []string{"/r/tags"}}

	got, err := e.Gather(context.Background(), host, "Widget::",
		Options{Command: defaultCommand, MaxCandidates: 10, Mode: ModeVerbatim})
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{{Word: "draw", Kind: "function", Menu: "w.cc"}}, got)
	assert.Zero(t, f.count("ctags"))
}

func TestGather_LanguageModeStripScope(t *testing.T) {
	f := newFakeTools()
	f.files["/r/tags"] = tagLines("Widget::draw\tw.cc\t/^void Widget::draw()$/;\"\tf")
	res := &stubResolver{
		langs: map[string]string{"/r/w.cc": "C++"},
		kinds: map[string]map[string]string{"C++": {"f": "function"}},
	}
	e := NewEngine(f, res, WithExists(f.exists))
	host := &ports.StaticHost{File: "/r/w.cc", Tags: []string{"/r/tags"}}

	opts := Options{Command: defaultCommand, MaxCandidates: 10}
	got, err := e.Gather(context.Background(), host, "Widget", opts)
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{{Word: "Widget::draw", Kind: "function", Menu: "w.cc"}}, got)

	opts.StripScope = true
	got, err = e.Gather(context.Background(), host, "Widget", opts)
	require.NoError(t, err)
	assert.Equal(t, "draw", got[0].Word)
	assert.Equal(t, []string{"/r/w.cc", "/r/w.cc"}, res.langCalls)
}

func TestGather_MissingSearchToolReported(t *testing.T) {
	f, e := newScenario()
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}

	opts := defaultOptions()
	opts.Command = []string{"no-such-rg", "^{PLACEHOLDER}\t"}
	got, err := e.Gather(context.Background(), host, "fo", opts)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, host.Messages, 1)
	assert.Contains(t, host.Messages[0], "no-such-rg")
	assert.Equal(t, 1, f.count("no-such-rg"))
}

func TestGather_EmptyCommand(t *testing.T) {
	_, e := newScenario()
	host := &ports.StaticHost{File: "/proj/src/a.c", Tags: []string{"/proj/src/tags"}}
	got, err := e.Gather(context.Background(), host, "fo", Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, host.Messages, 1)
}

func TestGather_LanguageModeKindFieldAsIs(t *testing.T) {
	f := newFakeTools()
	f.files["/r/tags"] = tagLines(
		"draw\tw.cc\t/^void draw()$/;\"\tf",
		"paint\tw.cc\t/^void paint()$/;\"\tkind:f")
	res := &stubResolver{
		langs: map[string]string{"/r/w.cc": "C++"},
		kinds: map[string]map[string]string{"C++": {"f": "function"}},
	}
	e := NewEngine(f, res, WithExists(f.exists))
	host := &ports.StaticHost{File: "/r/w.cc", Tags: []string{"/r/tags"}}

	got, err := e.Gather(context.Background(), host, "",
		Options{Command: defaultCommand, MaxCandidates: 10})
	require.NoError(t, err)
	assert.Equal(t, []ports.Candidate{
		{Word: "draw", Kind: "function", Menu: "w.cc"},
		{Word: "paint", Kind: "", Menu: "w.cc"},
	}, got)
}

func TestGather_UnescapedMetacharacterReported(t *testing.T) {
	f := newFakeTools()
	f.files["/r/tags"] = tagLines("f\tw.c\t/^f$/;\"\tf")
	e := NewEngine(f, nil, WithExists(f.exists))
	host := &ports.StaticHost{File: "/r/w.c", Tags: []string{"/r/tags"}}

	got, err := e.Gather(context.Background(), host, "f(",
		Options{Command: defaultCommand, MaxCandidates: 10, Mode: ModeVerbatim})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, host.Messages, 1)
	assert.Contains(t, host.Messages[0], "/r/tags")
}
