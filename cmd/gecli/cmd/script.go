package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/gecli/foundation/cli"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	"github.com/msto63/gecli/internal/console"
	"github.com/msto63/gecli/pkg/core/transport"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Run, list or clear command scripts",
}

var scriptRunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run the command lines of a file, or of stdin",
	Long: `Runs every line of a file through a session without echo or prompt.
Lines that fail report their status and the run continues.

Example:
  printf 'rgb set 1 2 3\nrgb get\n' | gecli script run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScriptFile,
}

var scriptExecCmd = &cobra.Command{
	Use:   "exec",
	Short: "Replay the stored script",
	Args:  cobra.NoArgs,
	RunE:  runStoredScript,
}

var scriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored script",
	Args:  cobra.NoArgs,
	RunE: withScript(func(ctx context.Context, env *environment) error {
		return env.script.List(ctx, os.Stdout)
	}),
}

var scriptClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored script",
	Args:  cobra.NoArgs,
	RunE: withScript(func(ctx context.Context, env *environment) error {
		return env.script.Clear(ctx)
	}),
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.AddCommand(scriptRunCmd, scriptExecCmd, scriptListCmd, scriptClearCmd)
}

// batch turns an instance into a non-interactive one
func batch(opts *cli.Options) {
	opts.Mode = cli.ModeThreaded
	opts.Echo = false
	opts.Prompt = ""
}

func runScriptFile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, false)
	if err != nil {
		printError("setup failed", err)
		return err
	}
	defer env.Close()

	var src io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			printError("script", err)
			return err
		}
		defer f.Close()
		src = f
	}

	pump := transport.NewPump(src, transport.DefaultBufferSize)
	defer pump.Close()

	inst, err := env.newInstance("script", pump, os.Stdout, console.NewStyles(os.Stdout), batch)
	if err != nil {
		printError("session", err)
		return err
	}
	return inst.Run(ctx)
}

func runStoredScript(cmd *cobra.Command, args []string) error {
	return withScript(func(ctx context.Context, env *environment) error {
		input := transport.NewPipe()
		input.CloseInput()

		inst, err := env.newInstance("script", input, os.Stdout, console.NewStyles(os.Stdout), batch)
		if err != nil {
			return err
		}
		return env.script.Execute(ctx, inst)
	})(cmd, args)
}

// withScript runs fn with an environment that has a script store
func withScript(fn func(ctx context.Context, env *environment) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := setup(ctx, false)
		if err != nil {
			printError("setup failed", err)
			return err
		}
		defer env.Close()

		if env.script == nil {
			err := gcerror.New("script storage is disabled (storage.type = none)").
				WithCode(gcerror.CodeInvalidConfig).
				WithOperation("gecli.script")
			printError("script", err)
			return err
		}
		if err := fn(ctx, env); err != nil {
			printError("script", err)
			return err
		}
		return nil
	}
}
