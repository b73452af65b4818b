// File: config.go
// Title: Instance Configuration
// Description: Maps the cli.* and storage.* configuration keys onto instance
//              options and opens the configured script store.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-09
// Modified: 2026-10-09

package cli

import (
	"context"

	"github.com/msto63/gecli/foundation/cli/storage"
	gcconfig "github.com/msto63/gecli/foundation/core/config"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// EnvPrefix prefixes environment overrides, e.g. GECLI_CLI_PROMPT
const EnvPrefix = "GECLI"

// ConfigRules validates the keys read by OptionsFromConfig and
// StorageSettingsFromConfig
var ConfigRules = gcconfig.ValidationRules{
	"cli.prompt":           {Type: "string"},
	"cli.buffer_size":      {Type: "int", Min: gcconfig.IntPtr(8), Max: gcconfig.IntPtr(4096)},
	"cli.history_size":     {Type: "int", Min: gcconfig.IntPtr(0), Max: gcconfig.IntPtr(65536)},
	"cli.max_arguments":    {Type: "int", Min: gcconfig.IntPtr(1), Max: gcconfig.IntPtr(255)},
	"cli.echo":             {Type: "bool"},
	"cli.enhanced_input":   {Type: "bool"},
	"cli.case_sensitive":   {Type: "bool"},
	"cli.mode":             {Type: "string", OneOf: []string{"cooperative", "threaded"}},
	"cli.tick_interval":    {Type: "duration"},
	"storage.type":         {Type: "string", OneOf: []string{"none", "ram", "sqlite"}},
	"storage.max_entries":  {Type: "int", Min: gcconfig.IntPtr(0)},
	"storage.max_line":     {Type: "int", Min: gcconfig.IntPtr(0)},
	"storage.run_on_start": {Type: "bool"},
}

// OptionsFromConfig validates cfg and returns instance options on top of
// DefaultOptions
func OptionsFromConfig(cfg *gcconfig.Config) (Options, error) {
	opts := DefaultOptions()
	if err := cfg.Validate(ConfigRules); err != nil {
		return opts, err
	}

	mode, err := ParseMode(cfg.GetString("cli.mode", opts.Mode.String()))
	if err != nil {
		return opts, err
	}

	opts.Prompt = cfg.GetString("cli.prompt", opts.Prompt)
	opts.BufferSize = cfg.GetInt("cli.buffer_size", opts.BufferSize)
	opts.HistorySize = cfg.GetInt("cli.history_size", opts.HistorySize)
	opts.MaxArguments = cfg.GetInt("cli.max_arguments", opts.MaxArguments)
	opts.Echo = cfg.GetBool("cli.echo", opts.Echo)
	opts.Enhanced = cfg.GetBool("cli.enhanced_input", opts.Enhanced)
	opts.CaseSensitive = cfg.GetBool("cli.case_sensitive", opts.CaseSensitive)
	opts.TickInterval = cfg.GetDuration("cli.tick_interval", opts.TickInterval)
	opts.Mode = mode
	return opts, nil
}

// StorageSettings selects and sizes the script store
type StorageSettings struct {
	// Type is "none", "ram" or "sqlite"
	Type       string
	Path       string
	MaxEntries int
	MaxLine    int
	EndString  string
	RunOnStart bool
}

// Prefix returns the command prefix of the storage type: ram or nvm3
func (s StorageSettings) Prefix() string {
	switch s.Type {
	case "sqlite":
		return "nvm3"
	case "":
		return "ram"
	}
	return s.Type
}

// StorageSettingsFromConfig reads the storage.* keys
func StorageSettingsFromConfig(cfg *gcconfig.Config) StorageSettings {
	return StorageSettings{
		Type:       cfg.GetString("storage.type", "ram"),
		Path:       cfg.GetString("storage.path", storage.DefaultSQLiteConfig().Path),
		MaxEntries: cfg.GetInt("storage.max_entries", 32),
		MaxLine:    cfg.GetInt("storage.max_line", DefaultOptions().BufferSize),
		EndString:  cfg.GetString("storage.end_string", storage.DefaultEndString),
		RunOnStart: cfg.GetBool("storage.run_on_start", false),
	}
}

// OpenScript creates the store and script described by s. closer releases
// the store. Type "none" returns a nil script.
func OpenScript(ctx context.Context, s StorageSettings, logger *gclog.Logger) (script *storage.Script, closer func() error, err error) {
	closer = func() error { return nil }

	var store storage.Store
	switch s.Type {
	case "none":
		return nil, closer, nil
	case "ram", "":
		store = storage.NewRAMStore(storage.RAMOptions{MaxEntries: s.MaxEntries, MaxEntrySize: s.MaxLine})
	case "sqlite":
		db, err := storage.NewSQLiteStore(storage.SQLiteConfig{
			Path:         s.Path,
			Namespace:    s.Prefix(),
			MaxEntrySize: s.MaxLine,
		})
		if err != nil {
			return nil, closer, err
		}
		store, closer = db, db.Close
	default:
		return nil, closer, gcerror.Newf("unknown storage type %q", s.Type).
			WithCode(gcerror.CodeInvalidConfig).
			WithOperation("cli.OpenScript")
	}

	script, err = storage.NewScript(ctx, store, storage.ScriptOptions{
		Name:          s.Prefix(),
		EndString:     s.EndString,
		MaxEntries:    s.MaxEntries,
		MaxLineLength: s.MaxLine,
		Logger:        logger,
	})
	if err != nil {
		_ = closer()
		return nil, func() error { return nil }, err
	}
	return script, closer, nil
}
