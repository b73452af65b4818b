package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	verbose     bool
	watchConfig bool
	modeFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "gecli",
	Short: "gecli - embedded-style command line interface",
	Long: `gecli hosts the command line framework used on embedded targets.

Sessions can run on the local terminal, on a serial port or for remote
WebSocket clients. Every session has its own line editor, history and
redirect state; the demo commands and the stored script are shared.

Commands:
  shell    - interactive session on this terminal
  serial   - session on a serial port
  serve    - WebSocket server, one session per client
  connect  - attach this terminal to a gecli server
  script   - run, list or clear command scripts`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: gecli.toml in ., ./configs, the user config dir or /etc/gecli)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "scheduling mode: cooperative or threaded (default from cli.mode)")
	rootCmd.PersistentFlags().BoolVar(&watchConfig, "watch", false, "reload the log level when the config file changes")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
