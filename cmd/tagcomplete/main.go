// tagcomplete completes identifiers from ctags tag files.
// It searches the tag files above the active file and labels each hit with
// its ctags kind name.
package main

import (
	"os"

	"github.com/corey/tagcomplete/cmd/tagcomplete/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
