// Package config holds the search parameters for tagcomplete and loads them
// from a project file. TOML and YAML are both accepted; the format is picked
// from the file extension.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/corey/tagcomplete/internal/domain/meta"
	"github.com/corey/tagcomplete/internal/domain/tags"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names looked up in the project root, in order.
var FileNames = []string{".tagcomplete.toml", ".tagcomplete.yaml", ".tagcomplete.yml"}

var (
	ErrNoPlaceholder = errors.New("command has no " + tags.Placeholder)
	ErrEmptyCommand  = errors.New("command is empty")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownMenu   = errors.New("unknown menu source")
	ErrFormat        = errors.New("unsupported config format")
)

// Params are the user-tunable settings.
type Params struct {
	Command       []string `toml:"command" yaml:"command" json:"command"`
	ExtraArgs     []string `toml:"extra_args" yaml:"extra_args" json:"extra_args,omitempty"`
	MaxCandidates int      `toml:"max_candidates" yaml:"max_candidates" json:"max_candidates"`
	Mode          string   `toml:"mode" yaml:"mode" json:"mode"`
	StripScope    bool     `toml:"strip_scope" yaml:"strip_scope" json:"strip_scope"`
	Menu          string   `toml:"menu" yaml:"menu" json:"menu"`
	Ctags         string   `toml:"ctags" yaml:"ctags" json:"ctags"`
	Parallel      int      `toml:"parallel" yaml:"parallel" json:"parallel"`
	TimeoutMS     int      `toml:"timeout_ms" yaml:"timeout_ms" json:"timeout_ms"`
	CacheDB       string   `toml:"cache_db" yaml:"cache_db" json:"cache_db,omitempty"`
}

// Default returns the built-in parameters: ripgrep with a prefix-anchored,
// tab-terminated pattern and a 200 candidate cap.
func Default() Params {
	return Params{
		Command:       []string{"rg", "^" + tags.Placeholder + "[_A-Za-z0-9:-]*\t", "--color=never"},
		MaxCandidates: 200,
		Mode:          string(tags.ModeLanguage),
		Menu:          string(tags.MenuFromSource),
		Ctags:         meta.DefaultCtags,
		Parallel:      1,
	}
}

// Load reads path over the defaults.
func Load(path string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	default:
		return p, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Discover returns the first config file present in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Validate checks the parameters for settings the engine cannot run with.
func (p Params) Validate() error {
	if len(p.Command) == 0 || p.Command[0] == "" {
		return ErrEmptyCommand
	}
	if !strings.Contains(strings.Join(p.Command, "\x00"), tags.Placeholder) {
		return ErrNoPlaceholder
	}
	switch tags.Mode(p.Mode) {
	case tags.ModeLanguage, tags.ModeVerbatim:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, p.Mode)
	}
	switch tags.MenuSource(p.Menu) {
	case tags.MenuFromSource, tags.MenuFromTagFile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMenu, p.Menu)
	}
	return nil
}

// Budget is MaxCandidates clamped to [1, 2000].
func (p Params) Budget() int { return tags.Budget(p.MaxCandidates) }

// Timeout is the per-tool time limit; zero means none.
func (p Params) Timeout() time.Duration {
	return time.Duration(max(0, p.TimeoutMS)) * time.Millisecond
}

// Options converts the parameters into per-request engine options.
func (p Params) Options() tags.Options {
	return tags.Options{
		Command:       p.Command,
		ExtraArgs:     p.ExtraArgs,
		MaxCandidates: p.MaxCandidates,
		Mode:          tags.Mode(p.Mode),
		StripScope:    p.StripScope,
		Menu:          tags.MenuSource(p.Menu),
	}
}

// ExpandTagFiles makes every entry absolute against base and expands entries
// containing glob syntax ("**/tags") into the matching files. Plain entries
// are kept even when they don't exist; scope selection skips those later.
func ExpandTagFiles(entries []string, base string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		if !filepath.IsAbs(e) {
			e = filepath.Join(base, e)
		}
		if !strings.ContainsAny(e, "*?[{") {
			out = append(out, e)
			continue
		}
		matches, err := doublestar.FilepathGlob(e)
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	return out
}
