package ports

// KindStore persists ctags kind tables (language -> code -> name) so a fresh
// process can seed its in-memory kind cache without invoking ctags.
// The backing store (bbolt) is namespaced per ctags executable: two ctags
// builds may disagree on a language's kinds.
//
// Language detection results are deliberately not part of this contract.
type KindStore interface {
	// SaveKinds persists the full kind table for a language.
	// Overwrites any prior table for (tool, language).
	SaveKinds(tool, language string, kinds map[string]string) error

	// LoadKinds retrieves a kind table. Returns nil, nil if none is stored.
	LoadKinds(tool, language string) (map[string]string, error)

	// DeleteTool removes every table stored for a tool.
	// Idempotent: deleting a nonexistent namespace is not an error.
	DeleteTool(tool string) error
}
