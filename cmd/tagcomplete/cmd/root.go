package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corey/tagcomplete/internal/app"
	"github.com/corey/tagcomplete/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tagcomplete",
	Short: "tagcomplete: identifier completion from ctags tag files",
	Long: "Finds completion candidates in the tag files above the active file and " +
		"labels each one with its ctags kind name.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(verbose))
	},
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// newLogger writes text logs to stderr: warnings by default, everything
// with --verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newLocalApp builds an in-process app for one command. Callers must Close it.
func newLocalApp(root string) (*app.App, error) {
	a, err := app.New(app.Config{ProjectRoot: root, ConfigPath: configPath, Logger: slog.Default()})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(root))
		}
		return nil, err
	}
	return a, nil
}

// loadParams returns the parameters the in-process app would use and the
// file they came from ("" for defaults).
func loadParams(root string) (config.Params, string, error) {
	path := configPath
	if path == "" {
		path = config.Discover(root)
	}
	if path == "" {
		return config.Default(), "", nil
	}
	p, err := config.Load(path)
	return p, path, err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: .tagcomplete.toml or .tagcomplete.yaml in the working directory)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")

	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(scopeCmd)
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
