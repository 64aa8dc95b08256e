package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/tagcomplete/internal/adapters/socket"
	"github.com/corey/tagcomplete/internal/config"
	"github.com/spf13/cobra"
)

var (
	completeFile      string
	completeTags      []string
	completeMax       int
	completeMode      string
	completeJSON      bool
	completeLocal     bool
	completeFailEmpty bool
	completeColor     string
)

var completeCmd = &cobra.Command{
	Use:   "complete [flags] <prefix>",
	Short: "List completion candidates for a prefix",
	Long: "Searches the tag files above --file for identifiers starting with <prefix>.\n" +
		"Uses the running daemon when there is one, so its caches stay warm.",
	Args:          cobra.ExactArgs(1),
	RunE:          runComplete,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := completeCmd.Flags()
	f.StringVarP(&completeFile, "file", "f", "", "Active file; only tag files in its ancestors are searched")
	f.StringSliceVarP(&completeTags, "tags", "t", nil, "Tag files or globs (repeatable, e.g. '**/tags')")
	f.IntVarP(&completeMax, "max", "m", 0, "Candidate cap, clamped to [1, 2000] (default from config)")
	f.StringVar(&completeMode, "mode", "", "Kind mode: language or verbatim (default from config)")
	f.BoolVar(&completeJSON, "json", false, "Print candidates as JSON")
	f.BoolVar(&completeLocal, "local", false, "Skip the daemon and run in-process")
	f.BoolVar(&completeFailEmpty, "fail-empty", false, "Exit 1 when there are no candidates")
	f.StringVar(&completeColor, "color", "auto", "Colorize output: auto, always, never")
}

func runComplete(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	req, err := completeRequest(root, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tagcomplete: %v\n", err)
		return exitError{2}
	}

	start := time.Now()
	var result *socket.CompleteResult
	client := socket.NewClient(socket.SocketPath(root))
	if !completeLocal && client.Ping() {
		result, err = client.Complete(req)
		if err != nil {
			// Daemon went away between ping and call; serve locally.
			result = nil
		}
	}
	if result == nil {
		a, err := newLocalApp(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tagcomplete: %v\n", err)
			return exitError{2}
		}
		defer a.Close()
		r := a.Complete(cmd.Context(), req)
		r.Elapsed = time.Since(start).Round(time.Microsecond).String()
		result = &r
	}

	for _, msg := range result.Messages {
		fmt.Fprintf(os.Stderr, "tagcomplete: %s\n", msg)
	}

	if completeJSON {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(result); err != nil {
			return exitError{2}
		}
	} else {
		fmt.Print(formatCandidates(result, resolveColor(completeColor)))
	}

	if completeFailEmpty && len(result.Candidates) == 0 {
		return exitError{1}
	}
	return nil
}

// completeRequest builds the wire request. Paths are made absolute because
// the daemon does not share the client's working directory.
func completeRequest(root, prefix string) (socket.CompleteParams, error) {
	req := socket.CompleteParams{
		Prefix:        prefix,
		TagFiles:      config.ExpandTagFiles(completeTags, root),
		MaxCandidates: completeMax,
		Mode:          completeMode,
	}
	if completeFile != "" {
		abs, err := filepath.Abs(completeFile)
		if err != nil {
			return req, fmt.Errorf("active file: %w", err)
		}
		req.File = abs
	}
	return req, nil
}
