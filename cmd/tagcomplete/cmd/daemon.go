package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/tagcomplete/internal/adapters/socket"
	"github.com/corey/tagcomplete/internal/app"
	"github.com/spf13/cobra"
)

var daemonPersist bool

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the tagcomplete daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the foreground",
	Long: "Serves completion requests on a per-project Unix socket so the language and kind " +
		"caches live across requests. The config file is watched and reloaded on change.",
	RunE: runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonPersist, "persist", false, "Keep kind tables in .tagcomplete/kinds.db across restarts")
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)

	// Check if already running
	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	cfg := app.Config{ProjectRoot: root, ConfigPath: configPath, Logger: slog.Default()}
	if daemonPersist {
		cfg.CacheDB = app.NewPaths(root).DB
	}
	a, err := app.New(cfg)
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("init: %w\n%s", err, diagnoseDBLock(root))
		}
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		a.Close()
		return err
	}

	fmt.Printf("⚡ tagcomplete daemon started at %s\n", sockPath)

	// Wait for a signal or a remote shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
	case <-a.Server.ShutdownCh():
	}

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}

	fmt.Println("⚡ daemon stopped")
	return nil
}
