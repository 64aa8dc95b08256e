// Package socket implements a JSON-over-Unix-socket protocol for the tagcomplete daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
// A long-running daemon keeps the ctags language and kind caches warm across
// completion requests.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/corey/tagcomplete/internal/ports"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/tagcomplete-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/tagcomplete-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodComplete = "complete"
	MethodHealth   = "health"
	MethodStats    = "stats"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// CompleteParams is the params for a complete request. Paths must be absolute:
// the daemon's working directory is not the client's.
type CompleteParams struct {
	File          string   `json:"file"`
	TagFiles      []string `json:"tagfiles"`
	Prefix        string   `json:"prefix"`
	MaxCandidates int      `json:"max_candidates,omitempty"` // 0 keeps the daemon's setting
	Mode          string   `json:"mode,omitempty"`
}

// CompleteResult is the result of a complete request.
type CompleteResult struct {
	Candidates []ports.Candidate `json:"candidates"`
	Messages   []string          `json:"messages,omitempty"`
	Elapsed    string            `json:"elapsed"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status   string `json:"status"`
	Requests int64  `json:"requests"`
	Uptime   string `json:"uptime"`
}

// StatsResult is the result of a stats request.
type StatsResult struct {
	Languages     int    `json:"languages"`
	KindTables    int    `json:"kind_tables"`
	Requests      int64  `json:"requests"`
	ConfigPath    string `json:"config_path,omitempty"`
	CacheDB       string `json:"cache_db,omitempty"`
	MaxCandidates int    `json:"max_candidates"`
	Mode          string `json:"mode"`
}
