package cmd

import (
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/internal/console"
	"github.com/msto63/gecli/pkg/core/transport"
)

var (
	serialBaud    int
	serialTimeout time.Duration
)

var serialCmd = &cobra.Command{
	Use:   "serial [device]",
	Short: "Session on a serial port",
	Long: `Serves a session on a serial port, as a target would on its UART.

The device defaults to serial.device from the configuration.

Examples:
  gecli serial /dev/ttyUSB0
  gecli serial --baud 9600 /dev/ttyACM0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSerial,
}

func init() {
	rootCmd.AddCommand(serialCmd)
	serialCmd.Flags().IntVar(&serialBaud, "baud", 0, "baud rate (default from serial.baud or 115200)")
	serialCmd.Flags().DurationVar(&serialTimeout, "read-timeout", 100*time.Millisecond, "read timeout of the port")
}

func runSerial(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, false)
	if err != nil {
		printError("setup failed", err)
		return err
	}
	defer env.Close()

	cfg := transport.DefaultSerialConfig(env.settings.GetString("serial.device"))
	if len(args) == 1 {
		cfg.Device = args[0]
	}
	cfg.Baud = env.settings.GetInt("serial.baud", cfg.Baud)
	if serialBaud > 0 {
		cfg.Baud = serialBaud
	}
	cfg.ReadTimeout = serialTimeout

	port, err := transport.OpenSerial(cfg)
	if err != nil {
		printError("serial port", err)
		return err
	}
	defer port.Close()

	inst, err := env.newInstance("serial", port, port, console.NewStyles(io.Discard))
	if err != nil {
		printError("session", err)
		return err
	}

	env.logger.Info("Serial session started", gclog.Fields{
		"device":  port.Device(),
		"baud":    cfg.Baud,
		"session": inst.ID(),
	})
	env.runOnStart(ctx, inst)
	return inst.Run(ctx)
}
