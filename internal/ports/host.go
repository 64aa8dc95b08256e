package ports

// Host is the editor-side collaborator for one completion request.
// Implementations are read-only snapshots: the CLI builds one from flags,
// the daemon builds one from each socket request.
type Host interface {
	// ActiveFile returns the absolute path of the file being edited.
	ActiveFile() string

	// TagFiles returns the configured tag files in priority order.
	// Entries may be relative to the host's working directory.
	TagFiles() []string

	// Report delivers a non-fatal diagnostic to the user.
	Report(msg string)
}

// Candidate is one completion suggestion.
type Candidate struct {
	Word string `json:"word"`
	Kind string `json:"kind"`
	Menu string `json:"menu"`
}

// StaticHost is a Host backed by plain values. Diagnostics are collected in
// Messages so callers can forward them after the request completes.
type StaticHost struct {
	File     string
	Tags     []string
	Messages []string
}

func (h *StaticHost) ActiveFile() string { return h.File }
func (h *StaticHost) TagFiles() []string { return h.Tags }
func (h *StaticHost) Report(msg string)  { h.Messages = append(h.Messages, msg) }
