package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/gecli/pkg/core/transport"
)

var connectCmd = &cobra.Command{
	Use:   "connect <url>",
	Short: "Attach this terminal to a gecli server",
	Long: `Connects to a session served by "gecli serve" and passes keystrokes
through unchanged, so line editing happens on the server as it would on
a target. Ctrl-C or Ctrl-D disconnects.

Example:
  gecli connect ws://localhost:7681/cli`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote, err := transport.DialWebSocket(ctx, args[0])
	if err != nil {
		printError("connect", err)
		return err
	}
	defer remote.Close()

	term, err := transport.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		printError("terminal", err)
		return err
	}
	defer term.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// keystrokes to the server
	go func() {
		defer cancel()
		buf := make([]byte, 1)
		for {
			b, err := term.ReadByteContext(ctx)
			if err != nil {
				return
			}
			buf[0] = b
			if _, err := remote.Write(buf); err != nil {
				return
			}
		}
	}()

	// server output to the terminal
	for {
		b, err := remote.ReadByteContext(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				_, _ = term.Write([]byte("\r\n"))
				return nil
			}
			printError("connection", err)
			return err
		}
		out := []byte{b}
		for {
			next, ok, _ := remote.TryReadByte()
			if !ok {
				break
			}
			out = append(out, next)
		}
		if _, err := term.Write(out); err != nil {
			return err
		}
	}
}
