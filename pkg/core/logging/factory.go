// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers with file rotation
// Author:      msto63
// Created:     2026-10-11
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	gcconfig "github.com/msto63/gecli/foundation/core/config"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: text, json, console or logfmt
	Format string

	// File receives the log with size based rotation; empty disables it
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// NoTerminal suppresses the stderr output, e.g. while the terminal
	// is in raw mode
	NoTerminal bool

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
		MaxSizeMB:   10,
		MaxBackups:  3,
		MaxAgeDays:  28,
	}
}

// ConfigFromSettings reads the log.* keys on top of the defaults
func ConfigFromSettings(cfg *gcconfig.Config, serviceName string) LoggerConfig {
	def := DefaultLoggerConfig(serviceName)
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       cfg.GetString("log.level", def.Level),
		Format:      cfg.GetString("log.format", def.Format),
		File:        cfg.GetString("log.file"),
		MaxSizeMB:   cfg.GetInt("log.max_size_mb", def.MaxSizeMB),
		MaxBackups:  cfg.GetInt("log.max_backups", def.MaxBackups),
		MaxAgeDays:  cfg.GetInt("log.max_age_days", def.MaxAgeDays),
		Compress:    cfg.GetBool("log.compress", false),
		NoTerminal:  cfg.GetBool("log.no_terminal", false),
	}
}

// NewLogger creates a Foundation logger. The returned close function
// flushes and closes the rotated file, if any.
func NewLogger(cfg LoggerConfig) (*gclog.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := gclog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, noop, gcerror.Wrap(err, "invalid log level").
			WithCode(gcerror.CodeInvalidConfig).
			WithOperation("logging.NewLogger")
	}
	format, err := gclog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, noop, gcerror.Wrap(err, "invalid log format").
			WithCode(gcerror.CodeInvalidConfig).
			WithOperation("logging.NewLogger")
	}

	var writers []io.Writer
	if !cfg.NoTerminal {
		writers = append(writers, os.Stderr)
	}

	closer := noop
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
		closer = file.Close
	}
	writers = append(writers, cfg.AdditionalOutputs...)

	var output io.Writer
	switch len(writers) {
	case 0:
		output = io.Discard
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	logger := gclog.NewWithConfig(gclog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: level <= gclog.LevelDebug,
	})
	return logger, closer, nil
}

// NewSimpleLogger creates a stderr logger at info level
func NewSimpleLogger(serviceName string) *gclog.Logger {
	logger, _, _ := NewLogger(DefaultLoggerConfig(serviceName))
	return logger
}
