package tags

import (
	"os"
	"path/filepath"
	"strings"
)

// TagFile is a tag index in scope for the current request.
type TagFile struct {
	Path string // absolute, cleaned
	Dir  string // parent of Path
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SelectScope returns the configured tag files whose directory is a string
// prefix of activeFile, in configuration order, each at most once.
//
// The containment test is a plain string prefix on cleaned paths, so the
// tag file /a/bc/tags also scopes /a/bcd/file. Tag files for which exists
// returns false are skipped silently.
func SelectScope(activeFile string, configured []string, exists func(string) bool) []TagFile {
	if exists == nil {
		exists = FileExists
	}
	if activeFile != "" {
		activeFile = filepath.Clean(activeFile)
	}
	seen := make(map[string]bool, len(configured))
	var scope []TagFile
	for _, p := range configured {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if !exists(abs) {
			continue
		}
		dir := filepath.Dir(abs)
		if !strings.HasPrefix(activeFile, dir) {
			continue
		}
		scope = append(scope, TagFile{Path: abs, Dir: dir})
	}
	return scope
}
