package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var langCmd = &cobra.Command{
	Use:          "lang <file>...",
	Short:        "Print the ctags language of each file",
	Args:         cobra.MinimumNArgs(1),
	RunE:         runLang,
	SilenceUsage: true,
}

func runLang(cmd *cobra.Command, args []string) error {
	a, err := newLocalApp(projectRoot())
	if err != nil {
		return err
	}
	defer a.Close()

	resolver := a.Resolver()
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		lang := resolver.Language(cmd.Context(), path)
		if lang == "" {
			lang = "-"
		}
		fmt.Printf("%s\t%s\n", arg, lang)
	}
	return nil
}
