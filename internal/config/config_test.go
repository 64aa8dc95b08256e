package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corey/tagcomplete/internal/domain/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, []string{"rg", "^{PLACEHOLDER}[_A-Za-z0-9:-]*\t", "--color=never"}, p.Command)
	assert.Equal(t, 200, p.Budget())
	assert.Equal(t, "ctags", p.Ctags)
	assert.Zero(t, p.Timeout())
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tagcomplete.toml")
	writeFile(t, path, `
command = ["rg", "^{PLACEHOLDER}\t", "--no-config"]
extra_args = ["--mmap"]
max_candidates = 5000
mode = "verbatim"
menu = "tagfile"
timeout_ms = 1500
`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rg", "^{PLACEHOLDER}\t", "--no-config"}, p.Command)
	assert.Equal(t, []string{"--mmap"}, p.ExtraArgs)
	assert.Equal(t, 2000, p.Budget())
	assert.Equal(t, 1500*time.Millisecond, p.Timeout())
	assert.Equal(t, "ctags", p.Ctags, "unset keys keep defaults")

	opts := p.Options()
	assert.Equal(t, tags.ModeVerbatim, opts.Mode)
	assert.Equal(t, tags.MenuFromTagFile, opts.Menu)
	assert.Equal(t, 5000, opts.MaxCandidates)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	writeFile(t, path, `
max_candidates: 50
strip_scope: true
ctags: /opt/uctags/bin/ctags
parallel: 4
cache_db: /tmp/kinds.db
`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, p.MaxCandidates)
	assert.True(t, p.StripScope)
	assert.Equal(t, "/opt/uctags/bin/ctags", p.Ctags)
	assert.Equal(t, 4, p.Parallel)
	assert.Equal(t, "/tmp/kinds.db", p.CacheDB)
	assert.Equal(t, Default().Command, p.Command)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "absent.toml"))
	assert.Error(t, err)

	ini := filepath.Join(dir, "cfg.ini")
	writeFile(t, ini, "x=1")
	_, err = Load(ini)
	assert.ErrorIs(t, err, ErrFormat)

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "command = [")
	_, err = Load(bad)
	assert.Error(t, err)

	noPH := filepath.Join(dir, "noph.toml")
	writeFile(t, noPH, `command = ["rg", "^foo"]`)
	_, err = Load(noPH)
	assert.ErrorIs(t, err, ErrNoPlaceholder)
}

func TestValidate(t *testing.T) {
	p := Default()
	p.Mode = "fuzzy"
	assert.ErrorIs(t, p.Validate(), ErrUnknownMode)

	p = Default()
	p.Menu = "both"
	assert.ErrorIs(t, p.Validate(), ErrUnknownMenu)

	p = Default()
	p.Command = nil
	assert.ErrorIs(t, p.Validate(), ErrEmptyCommand)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", Discover(dir))

	writeFile(t, filepath.Join(dir, ".tagcomplete.yaml"), "mode: verbatim\n")
	assert.Equal(t, filepath.Join(dir, ".tagcomplete.yaml"), Discover(dir))

	writeFile(t, filepath.Join(dir, ".tagcomplete.toml"), "mode = \"verbatim\"\n")
	assert.Equal(t, filepath.Join(dir, ".tagcomplete.toml"), Discover(dir))
}

func TestExpandTagFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tags"), "")
	writeFile(t, filepath.Join(dir, "a", "tags"), "")
	writeFile(t, filepath.Join(dir, "a", "b", "tags"), "")

	got := ExpandTagFiles([]string{"tags", "", "**/b/tags", "/abs/tags", "nope/tags"}, dir)
	assert.Equal(t, []string{
		filepath.Join(dir, "tags"),
		filepath.Join(dir, "a", "b", "tags"),
		"/abs/tags",
		filepath.Join(dir, "nope", "tags"),
	}, got)
}
