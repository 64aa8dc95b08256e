package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/corey/tagcomplete/internal/config"
	"github.com/corey/tagcomplete/internal/domain/tags"
	"github.com/spf13/cobra"
)

var (
	scopeFile string
	scopeTags []string
)

var scopeCmd = &cobra.Command{
	Use:   "scope --file F --tags T...",
	Short: "Show which tag files a completion would search",
	Args:  cobra.NoArgs,
	RunE:  runScope,
}

func init() {
	f := scopeCmd.Flags()
	f.StringVarP(&scopeFile, "file", "f", "", "Active file")
	f.StringSliceVarP(&scopeTags, "tags", "t", nil, "Tag files or globs (repeatable)")
}

func runScope(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	active := scopeFile
	if active != "" {
		abs, err := filepath.Abs(active)
		if err != nil {
			return fmt.Errorf("active file: %w", err)
		}
		active = abs
	}

	scope := tags.SelectScope(active, config.ExpandTagFiles(scopeTags, root), tags.FileExists)
	fmt.Print(formatScope(scope))
	return nil
}
