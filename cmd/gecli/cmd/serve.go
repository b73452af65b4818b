package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/internal/console"
	"github.com/msto63/gecli/pkg/core/health"
	"github.com/msto63/gecli/pkg/core/transport"
	"github.com/msto63/gecli/pkg/core/version"
)

const defaultListen = "127.0.0.1:7681"

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "WebSocket server, one session per client",
	Long: `Serves CLI sessions over WebSocket on /cli.

Each client gets its own session with separate history, echo and redirect
state. The demo LED and the stored script are shared by all sessions.
GET /healthz reports the script store and the open sessions as JSON.

Examples:
  gecli serve
  gecli serve --listen :7681
  gecli connect ws://localhost:7681/cli`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from serve.listen or "+defaultListen+")")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, false)
	if err != nil {
		printError("setup failed", err)
		return err
	}
	defer env.Close()

	listen := env.settings.GetString("serve.listen", defaultListen)
	if serveListen != "" {
		listen = serveListen
	}

	sessions := transport.NewWebSocketServer(ctx, func(ctx context.Context, ws *transport.WebSocket) {
		inst, err := env.newInstance("remote", ws, ws, console.NewStyles(io.Discard))
		if err != nil {
			env.logger.ErrorWithErr("Session setup failed", err)
			return
		}
		env.runOnStart(ctx, inst)
		if err := inst.Run(ctx); err != nil {
			env.logger.WarnWithErr("Session ended with error", err, gclog.Fields{"session": inst.ID()})
		}
	}, env.logger)

	checks := health.NewRegistry("gecli", version.Framework)
	checks.Register(health.SessionCheck("sessions", sessions.Sessions, env.settings.GetInt("serve.max_sessions", 0)))
	if env.script != nil {
		checks.Register(health.StoreCheck("script", env.script.Store()))
	}

	mux := http.NewServeMux()
	mux.Handle("/cli", sessions)
	mux.Handle("/healthz", checks.Handler(2*time.Second))

	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		env.logger.Info("Listening", gclog.Fields{"address": listen, "path": "/cli"})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			printError("server", err)
			return err
		}
	case <-ctx.Done():
	}

	env.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		env.logger.WarnWithErr("Shutdown incomplete", err)
	}
	sessions.Wait()
	return nil
}
