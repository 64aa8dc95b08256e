package ports

// Watcher monitors a single file (the daemon's config file) and reports
// changes. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute path
	// after each write, create, rename or remove. The callback may be invoked
	// from any goroutine. Returns an error if the parent directory doesn't
	// exist or permissions are insufficient.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
