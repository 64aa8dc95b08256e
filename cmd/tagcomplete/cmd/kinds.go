package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corey/tagcomplete/internal/app"
	"github.com/spf13/cobra"
)

var (
	kindsStored bool
	kindsForget bool
)

var kindsCmd = &cobra.Command{
	Use:   "kinds <language> | --stored | --forget",
	Short: "Print the ctags kind table for a language",
	Long: "Prints code and name of every kind ctags knows for <language>. " +
		"With cache_db configured the table is read from, and saved to, the kind cache.\n" +
		"--stored lists the languages in the kind cache; --forget empties it for the " +
		"configured ctags (after a ctags upgrade, say).",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runKinds,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := kindsCmd.Flags()
	f.BoolVar(&kindsStored, "stored", false, "List languages with a persisted kind table")
	f.BoolVar(&kindsForget, "forget", false, "Delete the persisted kind tables")
	kindsCmd.MarkFlagsMutuallyExclusive("stored", "forget")
}

func runKinds(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	cacheOp := kindsStored || kindsForget
	if cacheOp == (len(args) == 1) {
		fmt.Fprintln(os.Stderr, "tagcomplete: give a language, or one of --stored / --forget")
		return exitError{2}
	}

	var (
		a   *app.App
		err error
	)
	if cacheOp {
		a, err = newCacheApp(root)
	} else {
		a, err = newLocalApp(root)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tagcomplete: %v\n", err)
		return exitError{2}
	}
	defer a.Close()

	switch {
	case kindsStored:
		langs, err := a.StoredLanguages()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tagcomplete: %v\n", err)
			return exitError{2}
		}
		for _, l := range langs {
			fmt.Println(l)
		}
		return nil
	case kindsForget:
		if err := a.ForgetKinds(); err != nil {
			fmt.Fprintf(os.Stderr, "tagcomplete: %v\n", err)
			return exitError{2}
		}
		fmt.Println("⚡ kind cache cleared")
		return nil
	}

	kinds := a.Resolver().Kinds(cmd.Context(), args[0])
	if len(kinds) == 0 {
		fmt.Fprintf(os.Stderr, "tagcomplete: no kinds for %q\n", args[0])
		return exitError{1}
	}
	fmt.Print(formatKinds(kinds))
	return nil
}

// newCacheApp is newLocalApp with the kind cache always open: the configured
// cache_db, or the one `daemon start --persist` uses.
func newCacheApp(root string) (*app.App, error) {
	params, _, err := loadParams(root)
	if err != nil {
		return nil, err
	}
	cfg := app.Config{ProjectRoot: root, ConfigPath: configPath, Logger: slog.Default()}
	if params.CacheDB == "" {
		cfg.CacheDB = app.NewPaths(root).DB
	}
	a, err := app.New(cfg)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(root))
		}
		return nil, err
	}
	return a, nil
}
