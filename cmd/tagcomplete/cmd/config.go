package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/tagcomplete/internal/adapters/socket"
	"github.com/corey/tagcomplete/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the effective search parameters, where they came from, and daemon status. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	params, source, err := loadParams(root)
	if err != nil {
		return err
	}
	if source == "" {
		source = "built-in defaults"
	}
	sockPath := socket.SocketPath(root)

	client := socket.NewClient(sockPath)
	daemonStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if client.Ping() {
		daemonStatus = fmt.Sprintf("%s✓ running%s", colorGreen, colorReset)
	}

	cacheDB := params.CacheDB
	if cacheDB == "" {
		cacheDB = "off (daemon start --persist uses " + app.NewPaths(root).DB + ")"
	}
	timeout := "none"
	if d := params.Timeout(); d > 0 {
		timeout = d.String()
	}

	fmt.Printf("%s⚡ tagcomplete config%s\n", colorBold, colorReset)
	fmt.Printf("  Source:     %s\n", source)
	fmt.Printf("  Command:    %s\n", strings.Join(params.Command, " "))
	if len(params.ExtraArgs) > 0 {
		fmt.Printf("  Extra args: %s\n", strings.Join(params.ExtraArgs, " "))
	}
	fmt.Printf("  Max:        %d\n", params.Budget())
	fmt.Printf("  Mode:       %s\n", params.Mode)
	fmt.Printf("  Menu:       %s\n", params.Menu)
	fmt.Printf("  Strip:      %t\n", params.StripScope)
	fmt.Printf("  Ctags:      %s\n", params.Ctags)
	fmt.Printf("  Parallel:   %d\n", params.Parallel)
	fmt.Printf("  Timeout:    %s\n", timeout)
	fmt.Printf("  Kind cache: %s\n", cacheDB)
	fmt.Printf("  Socket:     %s\n", sockPath)
	fmt.Printf("  Daemon:     %s\n", daemonStatus)
	return nil
}
