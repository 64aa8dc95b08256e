// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the tagcomplete daemon: create, start, stop.
// The CLI also uses an unstarted App to serve a single request in-process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/corey/tagcomplete/internal/adapters/bbolt"
	fsw "github.com/corey/tagcomplete/internal/adapters/fsnotify"
	"github.com/corey/tagcomplete/internal/adapters/process"
	"github.com/corey/tagcomplete/internal/adapters/socket"
	"github.com/corey/tagcomplete/internal/config"
	"github.com/corey/tagcomplete/internal/domain/meta"
	"github.com/corey/tagcomplete/internal/domain/tags"
	"github.com/corey/tagcomplete/internal/ports"
)

// ErrNoKindCache is returned by kind-cache operations when cache_db is off.
var ErrNoKindCache = errors.New("kind cache not configured")

// App is the top-level container wiring all components together.
type App struct {
	ProjectRoot string
	Paths       *Paths

	Store   *bbolt.Store // nil unless cache_db is configured
	Watcher ports.Watcher // nil until Start, and only with a config file
	Server  *socket.Server

	logger     *slog.Logger
	configPath string
	dbPath     string

	mu       sync.RWMutex // guards the fields below (swapped on reload)
	params   config.Params
	resolver *meta.Resolver
	engine   *tags.Engine
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	ConfigPath  string         // config file; "" = discover in ProjectRoot
	Params      *config.Params // when set, used instead of any config file
	CacheDB     string         // overrides params.cache_db when set
	Logger      *slog.Logger
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	a := &App{
		ProjectRoot: cfg.ProjectRoot,
		Paths:       NewPaths(cfg.ProjectRoot),
		logger:      cfg.Logger,
	}

	params := config.Default()
	switch {
	case cfg.Params != nil:
		params = *cfg.Params
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("params: %w", err)
		}
	default:
		a.configPath = cfg.ConfigPath
		if a.configPath == "" {
			a.configPath = config.Discover(cfg.ProjectRoot)
		}
		if a.configPath != "" {
			p, err := config.Load(a.configPath)
			if err != nil {
				return nil, err
			}
			params = p
		}
	}

	if cfg.CacheDB != "" {
		params.CacheDB = cfg.CacheDB
	}
	if params.CacheDB != "" {
		a.dbPath = a.resolvePath(params.CacheDB)
		if err := os.MkdirAll(filepath.Dir(a.dbPath), 0755); err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		store, err := bbolt.NewStore(a.dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
	}

	a.apply(params)
	a.Server = socket.NewServer(a, socket.SocketPath(cfg.ProjectRoot), a.logger)
	return a, nil
}

// apply installs params, rebuilding the engine. The resolver, and with it
// the language and kind caches, survives unless the ctags executable changed;
// it still picks up the new runner so timeout changes reach ctags too.
func (a *App) apply(params config.Params) {
	runner := process.NewRunner(
		process.WithTimeout(params.Timeout()),
		process.WithLogger(a.logger))

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolver == nil || a.params.Ctags != params.Ctags {
		opts := []meta.Option{meta.WithCtags(params.Ctags), meta.WithLogger(a.logger)}
		if a.Store != nil {
			opts = append(opts, meta.WithKindStore(a.Store))
		}
		a.resolver = meta.NewResolver(runner, opts...)
	} else {
		a.resolver.SetRunner(runner)
	}
	a.engine = tags.NewEngine(runner, a.resolver,
		tags.WithParallel(params.Parallel),
		tags.WithLogger(a.logger))
	a.params = params
}

func (a *App) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.ProjectRoot, p)
}

// Params returns the active parameters.
func (a *App) Params() config.Params {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.params
}

// ConfigPath returns the config file in use, or "".
func (a *App) ConfigPath() string {
	return a.configPath
}

// Resolver returns the metadata resolver.
func (a *App) Resolver() *meta.Resolver {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolver
}

// Reload re-reads the config file. A config that fails to load or validate
// leaves the current parameters in place. The store is opened once at
// startup, so a changed cache_db only takes effect on restart.
func (a *App) Reload() error {
	if a.configPath == "" {
		return nil
	}
	params, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.apply(params)
	a.logger.Info("config reloaded", "path", a.configPath)
	return nil
}

// Complete serves one completion request. Tool and tag-file problems come
// back as messages next to whatever candidates could be gathered.
func (a *App) Complete(ctx context.Context, p socket.CompleteParams) socket.CompleteResult {
	a.mu.RLock()
	engine, params := a.engine, a.params
	a.mu.RUnlock()

	opts := params.Options()
	if p.MaxCandidates > 0 {
		opts.MaxCandidates = p.MaxCandidates
	}

	host := &ports.StaticHost{File: p.File, Tags: p.TagFiles}
	if p.Mode != "" {
		switch m := tags.Mode(p.Mode); m {
		case tags.ModeLanguage, tags.ModeVerbatim:
			opts.Mode = m
		default:
			host.Report(fmt.Sprintf("unknown mode %q, using %q", p.Mode, opts.Mode))
		}
	}

	candidates, err := engine.Gather(ctx, host, p.Prefix, opts)
	if err != nil {
		host.Report(err.Error())
	}
	return socket.CompleteResult{Candidates: candidates, Messages: host.Messages}
}

// Stats reports cache sizes and settings.
func (a *App) Stats() socket.StatsResult {
	params := a.Params()
	st := a.Resolver().Stats()
	return socket.StatsResult{
		Languages:     st.Languages,
		KindTables:    st.KindTables,
		Requests:      a.Server.Requests(),
		ConfigPath:    a.configPath,
		CacheDB:       a.dbPath,
		MaxCandidates: params.Budget(),
		Mode:          params.Mode,
	}
}

// StoredLanguages lists the languages with a persisted kind table for the
// active ctags executable.
func (a *App) StoredLanguages() ([]string, error) {
	if a.Store == nil {
		return nil, ErrNoKindCache
	}
	return a.Store.Languages(a.Resolver().Ctags())
}

// ForgetKinds drops the persisted kind tables of the active ctags executable,
// for example after upgrading ctags. Tables already in memory stay until the
// process exits.
func (a *App) ForgetKinds() error {
	if a.Store == nil {
		return ErrNoKindCache
	}
	return a.Store.DeleteTool(a.Resolver().Ctags())
}

// Start begins serving on the project socket and, when a config file is in
// use, watching it for changes.
func (a *App) Start() error {
	if err := a.Paths.EnsureDirs(); err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if err := os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		a.logger.Warn("write pid file", "err", err)
	}

	// Config watcher is optional; a setup failure only disables reload
	if a.configPath != "" {
		w, err := fsw.NewWatcher()
		if err == nil {
			err = w.Watch(a.configPath, a.onConfigChanged)
		}
		if err != nil {
			a.logger.Warn("config watcher unavailable", "err", err)
		} else {
			a.Watcher = w
		}
	}
	return nil
}

func (a *App) onConfigChanged(path string) {
	if err := a.Reload(); err != nil {
		a.logger.Warn("config reload failed, keeping previous settings", "path", path, "err", err)
	}
}

// Stop gracefully shuts down all services and releases the store.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	a.Server.Stop()
	a.Paths.CleanEphemeral()
	return a.Close()
}

// Close releases the store. Use it instead of Stop for an App that was
// never started.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}
