package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/msto63/gecli/foundation/cli"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/storage"
	gcconfig "github.com/msto63/gecli/foundation/core/config"
	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/internal/console"
	"github.com/msto63/gecli/internal/demo"
	"github.com/msto63/gecli/pkg/core/logging"
	"github.com/msto63/gecli/pkg/core/version"
)

// environment is what every session of one gecli process shares: the
// configuration, the logger, the demo application and the stored script
type environment struct {
	settings *gcconfig.Config
	logger   *gclog.Logger
	app      *demo.App
	storage  cli.StorageSettings
	script   *storage.Script
	closers  []func() error
}

func loadSettings() (*gcconfig.Config, error) {
	if cfgFile != "" {
		return gcconfig.LoadWithOptions(cfgFile, gcconfig.LoadOptions{
			Format:    gcconfig.FormatAuto,
			EnvPrefix: cli.EnvPrefix,
		})
	}
	options := gcconfig.DefaultDiscoveryOptions("gecli")
	options.EnvPrefix = cli.EnvPrefix
	return gcconfig.Discover(options)
}

// setup loads the configuration, creates the logger and opens the script
// store. quietTerminal keeps log lines off stderr unless a log file is set,
// for sessions that own the terminal.
func setup(ctx context.Context, quietTerminal bool) (*environment, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	env := &environment{settings: settings}

	logCfg := logging.ConfigFromSettings(settings, "gecli")
	if verbose {
		logCfg.Level = "debug"
	}
	if quietTerminal && !verbose {
		logCfg.NoTerminal = true
	}
	logger, closeLog, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}
	env.logger = logger
	env.closers = append(env.closers, closeLog)

	if watchConfig && settings.FilePath() != "" {
		if err := settings.StartWatching(); err != nil {
			logger.WarnWithErr("Config watching disabled", err)
		} else {
			settings.OnChange(env.applyLogLevel)
			env.closers = append(env.closers, func() error {
				settings.StopWatching()
				return nil
			})
		}
	}

	env.storage = cli.StorageSettingsFromConfig(settings)
	script, closeStore, err := cli.OpenScript(ctx, env.storage, logger)
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	env.script = script
	env.closers = append(env.closers, closeStore)
	env.app = demo.New("gecli", logger)

	logger.Debug("Environment ready", gclog.Fields{
		"config":  settings.FilePath(),
		"storage": env.storage.Type,
	})
	return env, nil
}

func (e *environment) applyLogLevel(_, updated *gcconfig.Config) {
	if verbose {
		return
	}
	level, err := gclog.ParseLevel(updated.GetString("log.level", "info"))
	if err != nil {
		e.logger.WarnWithErr("Ignoring log level change", err)
		return
	}
	e.logger.SetLevel(level)
	e.logger.Info("Log level changed", gclog.Fields{"level": level.String()})
}

// newInstance builds a session on in and out. adjust runs after the
// configured options are applied.
func (e *environment) newInstance(name string, in cli.Input, out io.Writer, styles *console.Styles, adjust ...func(*cli.Options)) (*cli.Instance, error) {
	opts, err := cli.OptionsFromConfig(e.settings)
	if err != nil {
		return nil, err
	}
	if modeFlag != "" {
		if opts.Mode, err = cli.ParseMode(modeFlag); err != nil {
			return nil, err
		}
	}

	opts.Name = name
	opts.Version = version.Framework
	opts.Input = in
	opts.Output = out
	opts.Logger = e.logger
	opts.HelpWriter = console.HelpWriter(styles)
	opts.Groups = []*registry.Group{e.app.Commands()}
	if e.script != nil {
		opts.Groups = append(opts.Groups, storage.Commands(e.script, e.storage.Prefix()))
	}
	for _, fn := range adjust {
		fn(&opts)
	}
	return cli.New(opts)
}

// runOnStart replays the stored script in inst when configured
func (e *environment) runOnStart(ctx context.Context, inst *cli.Instance) {
	if e.script == nil || !e.storage.RunOnStart {
		return
	}
	if err := e.script.Execute(ctx, inst); err != nil {
		e.logger.WarnWithErr("Stored script not started", err)
	}
}

func (e *environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}
