package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .tagcomplete/ project directory.
// All fields are pre-computed strings. Zero-alloc access after construction.
type Paths struct {
	Root string // .tagcomplete/
	DB   string // .tagcomplete/kinds.db

	RunDir  string // .tagcomplete/run/
	PIDFile string // .tagcomplete/run/daemon.pid
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".tagcomplete")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "kinds.db"),

		RunDir:  filepath.Join(root, "run"),
		PIDFile: filepath.Join(root, "run", "daemon.pid"),
	}
}

// EnsureDirs creates all subdirectories under .tagcomplete/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (the PID file).
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}
