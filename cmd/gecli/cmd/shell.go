package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/internal/console"
	"github.com/msto63/gecli/pkg/core/transport"
	"github.com/msto63/gecli/pkg/core/version"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session on this terminal",
	Long: `Starts a session on the local terminal.

The terminal is switched to raw mode so that arrow keys, history and tab
completion work as on the target. Ctrl-C or Ctrl-D ends the session. Log
output goes to log.file only, unless --verbose is given.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, true)
	if err != nil {
		printError("setup failed", err)
		return err
	}
	defer env.Close()

	term, err := transport.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		printError("terminal", err)
		return err
	}
	defer term.Close()

	styles := console.NewStyles(os.Stdout)
	inst, err := env.newInstance("shell", term, term, styles)
	if err != nil {
		printError("session", err)
		return err
	}

	if term.IsRaw() {
		_, _ = term.Write([]byte(console.Banner(styles, "gecli", version.Framework)))
	}
	env.runOnStart(ctx, inst)

	err = inst.Run(ctx)
	_, _ = term.Write([]byte("\r\n"))
	if err != nil {
		env.logger.ErrorWithErr("Session failed", err)
		return err
	}
	env.logger.Debug("Shell closed", gclog.Fields{"session": inst.ID()})
	return nil
}
