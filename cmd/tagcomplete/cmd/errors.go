package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/tagcomplete/internal/adapters/socket"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock checks the daemon state and returns guidance for a kind
// cache that could not be opened because another process holds it.
func diagnoseDBLock(root string) string {
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)

	if client.Ping() {
		return "kind cache is locked by the running daemon\n" +
			"  → query it instead (omit --local), or stop it:  tagcomplete daemon stop"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("kind cache is locked, and the daemon socket exists but is not responding\n"+
			"  → a previous daemon may have crashed\n"+
			"  → find the process:  ps aux | grep 'tagcomplete daemon'\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return "kind cache is locked by another process\n" +
		"  → find the process:  ps aux | grep tagcomplete\n" +
		"  → then retry your command"
}
